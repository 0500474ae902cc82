package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/anivault/anivault/internal/auth"
	"github.com/anivault/anivault/internal/cli"
	"github.com/anivault/anivault/internal/config"
	"github.com/anivault/anivault/internal/crypto"
	"github.com/anivault/anivault/internal/iocli"
	"github.com/anivault/anivault/internal/models"
	"github.com/anivault/anivault/internal/storage"
	"github.com/anivault/anivault/internal/storage/boltdb"
	"github.com/anivault/anivault/internal/storage/sqlite"
	"github.com/anivault/anivault/internal/token"
	"github.com/anivault/anivault/internal/users"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to YAML config file")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		cli.New(iocli.NewStdio(), nil, nil).PrintUsage()
		os.Exit(1)
	}

	if err := run(context.Background(), *configPath, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, command string, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Bootstrap admin: пароль из конфигурации хешируется один раз при старте
	adminHash, err := crypto.HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		ID:           cfg.Admin.ID,
		Email:        cfg.Admin.Email,
		Username:     cfg.Admin.Username,
		Nickname:     cfg.Admin.Nickname,
		PasswordHash: adminHash,
		CreatedAt:    time.Unix(0, 0),
		Preferences:  models.DefaultPreferences(),
	}

	kv, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	repo, err := users.NewRepository(ctx, kv, admin, logger)
	if err != nil {
		return err
	}

	tokens := token.NewService(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	authService := auth.NewService(repo, tokens, logger)
	userService := users.NewService(repo, tokens, logger)

	return cli.New(iocli.NewStdio(), authService, userService).Run(ctx, command, args)
}

func openStore(ctx context.Context, cfg *config.Config) (storage.KVStore, error) {
	switch cfg.Database.Backend {
	case config.BackendSQLite:
		return sqlite.New(ctx, cfg.Database.Path)
	default:
		return boltdb.New(ctx, cfg.Database.Path)
	}
}

func printVersion() {
	fmt.Printf("anivault\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
