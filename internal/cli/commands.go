package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/anivault/anivault/internal/auth"
	"github.com/anivault/anivault/internal/models"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println("")

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	username, err := c.io.ReadInput("Username (leave empty to generate): ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	session, err := c.auth.Register(ctx, auth.RegisterInput{
		Email:           email,
		Username:        username,
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return err
	}

	c.io.Println("")
	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID:  %s\n", session.User.ID)
	c.io.Printf("Username: %s\n", session.User.Username)
	c.io.Printf("Token:    %s\n", session.Token)

	return nil
}

func (c *Cli) runLogin(ctx context.Context) error {
	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	session, err := c.auth.Login(ctx, auth.LoginInput{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}

	c.io.Println("")
	c.io.Println("✓ Login successful!")
	c.io.Printf("User ID: %s\n", session.User.ID)
	c.io.Printf("Role:    %s\n", session.User.Role)
	c.io.Printf("Token:   %s\n", session.Token)

	return nil
}

func (c *Cli) runWhoami(_ context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: whoami <token>")
	}

	claims, err := c.auth.VerifySession(args[0])
	if err != nil {
		return err
	}

	c.io.Printf("User ID: %s\n", claims.UserID)
	c.io.Printf("Email:   %s\n", claims.Email)
	c.io.Printf("Role:    %s\n", claims.Role)
	c.io.Printf("Expires: %s\n", claims.ExpiresAt.Time.Format("2006-01-02 15:04:05"))

	return nil
}

func (c *Cli) runUsers(ctx context.Context) error {
	list, err := c.users.List(ctx)
	if err != nil {
		return err
	}

	c.io.Printf("%-38s %-30s %-6s %-7s %s\n", "ID", "EMAIL", "ROLE", "STATUS", "USERNAME")
	for _, u := range list {
		c.io.Printf("%-38s %-30s %-6s %-7s %s\n", u.ID, u.Email, u.Role, u.Status, u.Username)
		if u.IsBanned() {
			c.io.Printf("    banned: %s\n", u.BanReason)
		}
	}

	return nil
}

func (c *Cli) runBan(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: ban <user-id> <reason...>")
	}

	userID := args[0]
	reason := strings.Join(args[1:], " ")

	if err := c.users.Ban(ctx, userID, reason); err != nil {
		return err
	}

	c.io.Printf("✓ User %s banned\n", userID)
	return nil
}

func (c *Cli) runUnban(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: unban <user-id>")
	}

	if err := c.users.Unban(ctx, args[0]); err != nil {
		return err
	}

	c.io.Printf("✓ User %s unbanned\n", args[0])
	return nil
}

func (c *Cli) runSetRole(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: set-role <user-id> <USER|ADMIN>")
	}

	fresh, err := c.users.SetRole(ctx, args[0], models.Role(args[1]))
	if err != nil {
		return err
	}

	c.io.Printf("✓ Role of %s set to %s\n", args[0], args[1])
	c.io.Println("")
	c.io.Println("Active sessions of this user keep their old role until expiry.")
	c.io.Println("Hand them this fresh token to pick up the new role now:")
	c.io.Printf("%s\n", fresh)

	return nil
}

func (c *Cli) runResetPassword(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: reset-password <user-id>")
	}

	password, err := c.io.ReadPassword("New password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if err := c.users.ResetPassword(ctx, args[0], password); err != nil {
		return err
	}

	c.io.Printf("✓ Password of %s reset\n", args[0])
	return nil
}

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <user-id>")
	}

	confirm, err := c.io.ReadInput("Are you sure you want to delete this account? (yes/no): ")
	if err != nil {
		return err
	}
	if confirm != "yes" {
		c.io.Println("Aborted.")
		return nil
	}

	if err := c.users.Delete(ctx, args[0]); err != nil {
		return err
	}

	c.io.Printf("✓ User %s deleted\n", args[0])
	return nil
}
