package cli

import (
	"context"
	"fmt"

	"github.com/anivault/anivault/internal/auth"
	"github.com/anivault/anivault/internal/iocli"
	"github.com/anivault/anivault/internal/users"
)

// Cli связывает консольные команды с сервисами аутентификации
// и управления пользователями
type Cli struct {
	io    iocli.IO
	auth  *auth.Service
	users *users.Service
}

// New создает CLI поверх сервисов
func New(io iocli.IO, authService *auth.Service, userService *users.Service) *Cli {
	return &Cli{
		io:    io,
		auth:  authService,
		users: userService,
	}
}

// Run выполняет команду консоли
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "whoami":
		return c.runWhoami(ctx, args)
	case "users":
		return c.runUsers(ctx)
	case "ban":
		return c.runBan(ctx, args)
	case "unban":
		return c.runUnban(ctx, args)
	case "set-role":
		return c.runSetRole(ctx, args)
	case "reset-password":
		return c.runResetPassword(ctx, args)
	case "delete":
		return c.runDelete(ctx, args)
	default:
		c.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// PrintUsage выводит справку по командам
func (c *Cli) PrintUsage() {
	c.io.Println("Usage: anivault [flags] <command> [args]")
	c.io.Println("")
	c.io.Println("Commands:")
	c.io.Println("  register                      Register a new account")
	c.io.Println("  login                         Log in and print a session token")
	c.io.Println("  whoami <token>                Verify a session token and print its claims")
	c.io.Println("  users                         List all accounts")
	c.io.Println("  ban <user-id> <reason...>     Ban an account")
	c.io.Println("  unban <user-id>               Lift a ban")
	c.io.Println("  set-role <user-id> <role>     Change account role (USER or ADMIN)")
	c.io.Println("  reset-password <user-id>      Set a new password for an account")
	c.io.Println("  delete <user-id>              Delete an account")
	c.io.Println("")
	c.io.Println("Flags:")
	c.io.Println("  -config <path>   Path to YAML config file")
	c.io.Println("  -version         Show version information")
}
