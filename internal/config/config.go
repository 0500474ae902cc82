package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names for the key-value store
const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// Env vars overriding secrets from the config file
const (
	EnvTokenSecret   = "ANIVAULT_TOKEN_SECRET"
	EnvAdminPassword = "ANIVAULT_ADMIN_PASSWORD"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Admin    AdminConfig    `yaml:"admin"`
}

type DatabaseConfig struct {
	Backend string `yaml:"backend"` // bolt | sqlite
	Path    string `yaml:"path"`
}

type AuthConfig struct {
	TokenSecret string        `yaml:"token_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
}

// AdminConfig описывает bootstrap администратора
// Пароль хранится открытым текстом в конфигурации и хешируется один раз
// при старте процесса
type AdminConfig struct {
	ID       string `yaml:"id"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Username string `yaml:"username"`
	Nickname string `yaml:"nickname"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Backend: BackendBolt,
			Path:    "anivault.db",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Admin: AdminConfig{
			ID:       "admin-default",
			Email:    "admin@anivault.local",
			Username: "admin",
			Nickname: "Administrator",
		},
	}
}

// Load reads configuration from path, fills defaults and applies
// environment overrides for secret material.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Секреты из окружения имеют приоритет над файлом
	if v := os.Getenv(EnvTokenSecret); v != "" {
		cfg.Auth.TokenSecret = v
	}
	if v := os.Getenv(EnvAdminPassword); v != "" {
		cfg.Admin.Password = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Backend {
	case BackendBolt, BackendSQLite:
	default:
		return fmt.Errorf("unknown database backend %q", c.Database.Backend)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("auth token secret is required (set %s or auth.token_secret)", EnvTokenSecret)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token ttl must be positive")
	}
	if c.Admin.ID == "" {
		return fmt.Errorf("admin id is required")
	}
	if c.Admin.Email == "" {
		return fmt.Errorf("admin email is required")
	}
	if c.Admin.Password == "" {
		return fmt.Errorf("admin password is required (set %s or admin.password)", EnvAdminPassword)
	}
	return nil
}
