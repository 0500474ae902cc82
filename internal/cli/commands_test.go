package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anivault/anivault/internal/auth"
	"github.com/anivault/anivault/internal/crypto"
	"github.com/anivault/anivault/internal/models"
	"github.com/anivault/anivault/internal/storage/boltdb"
	"github.com/anivault/anivault/internal/token"
	"github.com/anivault/anivault/internal/users"
)

const (
	testAdminID       = "admin-default"
	testAdminEmail    = "admin@anivault.local"
	testAdminPassword = "Admin123!"
	testSecret        = "test-secret-key-for-jwt-signing"
)

// ioMock реализует iocli.IO со scripted вводом и записью вывода
type ioMock struct {
	inputs    []string
	passwords []string
	out       strings.Builder
}

func (m *ioMock) Println(a ...any) {
	m.out.WriteString(fmt.Sprintln(a...))
}

func (m *ioMock) Printf(format string, a ...any) {
	m.out.WriteString(fmt.Sprintf(format, a...))
}

func (m *ioMock) ReadInput(_ string) (string, error) {
	if len(m.inputs) == 0 {
		return "", io.EOF
	}
	v := m.inputs[0]
	m.inputs = m.inputs[1:]
	return v, nil
}

func (m *ioMock) ReadPassword(_ string) (string, error) {
	if len(m.passwords) == 0 {
		return "", io.EOF
	}
	v := m.passwords[0]
	m.passwords = m.passwords[1:]
	return v, nil
}

type cliEnv struct {
	cli    *Cli
	io     *ioMock
	repo   *users.Repository
	tokens *token.Service
	auth   *auth.Service
}

func setupCliEnv(t *testing.T) *cliEnv {
	t.Helper()

	ctx := context.Background()
	kv, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, kv.Close())
	})

	hash, err := crypto.HashPassword(testAdminPassword)
	require.NoError(t, err)

	admin := models.User{
		ID:           testAdminID,
		Email:        testAdminEmail,
		Username:     "admin",
		Nickname:     "Administrator",
		PasswordHash: hash,
		Preferences:  models.DefaultPreferences(),
	}

	logger := slog.New(slog.DiscardHandler)
	repo, err := users.NewRepository(ctx, kv, admin, logger)
	require.NoError(t, err)

	tokens := token.NewService(testSecret, token.DefaultTTL)
	authService := auth.NewService(repo, tokens, logger)
	userService := users.NewService(repo, tokens, logger)

	mock := &ioMock{}

	return &cliEnv{
		cli:    New(mock, authService, userService),
		io:     mock,
		repo:   repo,
		tokens: tokens,
		auth:   authService,
	}
}

// registerUser создает обычный аккаунт в обход консоли
func registerUser(t *testing.T, env *cliEnv, email string) *models.User {
	t.Helper()

	session, err := env.auth.Register(context.Background(), auth.RegisterInput{
		Email:           email,
		Password:        "Abcd123!",
		ConfirmPassword: "Abcd123!",
	})
	require.NoError(t, err)

	return session.User
}

func TestCli_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("successful registration", func(t *testing.T) {
		env := setupCliEnv(t)
		env.io.inputs = []string{"new@test.com", "newuser1"}
		env.io.passwords = []string{"Abcd123!", "Abcd123!"}

		err := env.cli.Run(ctx, "register", nil)
		require.NoError(t, err)

		output := env.io.out.String()
		assert.Contains(t, output, "Registration successful")
		assert.Contains(t, output, "newuser1")

		stored, err := env.repo.FindByEmail(ctx, "new@test.com")
		require.NoError(t, err)
		assert.Equal(t, "newuser1", stored.Username)
	})

	t.Run("password mismatch surfaces validation error", func(t *testing.T) {
		env := setupCliEnv(t)
		env.io.inputs = []string{"new@test.com", "newuser1"}
		env.io.passwords = []string{"Abcd123!", "Other123!"}

		err := env.cli.Run(ctx, "register", nil)
		assert.Error(t, err)
	})
}

func TestCli_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login prints token", func(t *testing.T) {
		env := setupCliEnv(t)
		registerUser(t, env, "u@test.com")

		env.io.inputs = []string{"u@test.com"}
		env.io.passwords = []string{"Abcd123!"}

		err := env.cli.Run(ctx, "login", nil)
		require.NoError(t, err)
		assert.Contains(t, env.io.out.String(), "Login successful")
	})

	t.Run("wrong password", func(t *testing.T) {
		env := setupCliEnv(t)
		registerUser(t, env, "u@test.com")

		env.io.inputs = []string{"u@test.com"}
		env.io.passwords = []string{"Wrong123!"}

		err := env.cli.Run(ctx, "login", nil)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestCli_Whoami(t *testing.T) {
	ctx := context.Background()

	t.Run("prints claims of a valid token", func(t *testing.T) {
		env := setupCliEnv(t)
		user := registerUser(t, env, "u@test.com")

		tok, err := env.tokens.Issue(user.ID, user.Email, user.Role)
		require.NoError(t, err)

		err = env.cli.Run(ctx, "whoami", []string{tok})
		require.NoError(t, err)

		output := env.io.out.String()
		assert.Contains(t, output, user.ID)
		assert.Contains(t, output, "u@test.com")
	})

	t.Run("missing token argument", func(t *testing.T) {
		env := setupCliEnv(t)

		err := env.cli.Run(ctx, "whoami", nil)
		assert.Error(t, err)
	})
}

func TestCli_Users(t *testing.T) {
	ctx := context.Background()
	env := setupCliEnv(t)
	user := registerUser(t, env, "u@test.com")

	require.NoError(t, env.cli.Run(ctx, "ban", []string{user.ID, "spam"}))
	env.io.out.Reset()

	err := env.cli.Run(ctx, "users", nil)
	require.NoError(t, err)

	output := env.io.out.String()
	assert.Contains(t, output, testAdminEmail)
	assert.Contains(t, output, "u@test.com")
	assert.Contains(t, output, "banned: spam")
}

func TestCli_Ban(t *testing.T) {
	ctx := context.Background()

	t.Run("joins multi-word reason with spaces", func(t *testing.T) {
		env := setupCliEnv(t)
		user := registerUser(t, env, "u@test.com")

		err := env.cli.Run(ctx, "ban", []string{user.ID, "spamming", "review", "sections"})
		require.NoError(t, err)

		stored, err := env.repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusBanned, stored.Status)
		assert.Equal(t, "spamming review sections", stored.BanReason)
	})

	t.Run("requires a reason", func(t *testing.T) {
		env := setupCliEnv(t)
		user := registerUser(t, env, "u@test.com")

		err := env.cli.Run(ctx, "ban", []string{user.ID})
		assert.Error(t, err)
	})
}

func TestCli_Unban(t *testing.T) {
	ctx := context.Background()
	env := setupCliEnv(t)
	user := registerUser(t, env, "u@test.com")

	require.NoError(t, env.cli.Run(ctx, "ban", []string{user.ID, "spam"}))
	require.NoError(t, env.cli.Run(ctx, "unban", []string{user.ID}))

	stored, err := env.repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, stored.Status)
	assert.Empty(t, stored.BanReason)
}

func TestCli_SetRole(t *testing.T) {
	ctx := context.Background()
	env := setupCliEnv(t)
	user := registerUser(t, env, "u@test.com")

	err := env.cli.Run(ctx, "set-role", []string{user.ID, "ADMIN"})
	require.NoError(t, err)

	stored, err := env.repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, stored.Role)

	// Последняя строка вывода содержит свежий токен с новой ролью
	output := strings.TrimSpace(env.io.out.String())
	lines := strings.Split(output, "\n")
	claims, err := env.tokens.Verify(lines[len(lines)-1])
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestCli_ResetPassword(t *testing.T) {
	ctx := context.Background()
	env := setupCliEnv(t)
	user := registerUser(t, env, "u@test.com")

	env.io.passwords = []string{"Fresh123!"}
	require.NoError(t, env.cli.Run(ctx, "reset-password", []string{user.ID}))

	_, err := env.auth.Login(ctx, auth.LoginInput{Email: "u@test.com", Password: "Fresh123!"})
	assert.NoError(t, err)
}

func TestCli_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes after confirmation", func(t *testing.T) {
		env := setupCliEnv(t)
		user := registerUser(t, env, "u@test.com")

		env.io.inputs = []string{"yes"}
		require.NoError(t, env.cli.Run(ctx, "delete", []string{user.ID}))

		_, err := env.repo.FindByID(ctx, user.ID)
		assert.ErrorIs(t, err, users.ErrUserNotFound)
	})

	t.Run("aborts without confirmation", func(t *testing.T) {
		env := setupCliEnv(t)
		user := registerUser(t, env, "u@test.com")

		env.io.inputs = []string{"no"}
		require.NoError(t, env.cli.Run(ctx, "delete", []string{user.ID}))

		_, err := env.repo.FindByID(ctx, user.ID)
		assert.NoError(t, err)
		assert.Contains(t, env.io.out.String(), "Aborted")
	})
}

func TestCli_UnknownCommand(t *testing.T) {
	env := setupCliEnv(t)

	err := env.cli.Run(context.Background(), "frobnicate", nil)
	assert.Error(t, err)
	assert.Contains(t, env.io.out.String(), "Usage:")
}
