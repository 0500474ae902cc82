package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anivault/anivault/internal/crypto"
	"github.com/anivault/anivault/internal/models"
	"github.com/anivault/anivault/internal/token"
	"github.com/anivault/anivault/internal/users"
	"github.com/anivault/anivault/internal/validation"
)

// ErrInvalidCredentials возвращается и для неизвестного email, и для
// неверного пароля. Различать их нельзя: ответ не должен раскрывать,
// существует ли учетная запись.
var ErrInvalidCredentials = errors.New("invalid email or password")

// BannedError возвращается при попытке входа в заблокированную учетную
// запись — только после успешной проверки пароля
type BannedError struct {
	Reason string
}

func (e *BannedError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "No reason provided"
	}
	return fmt.Sprintf("account banned: %s", reason)
}

// RegisterInput входные данные регистрации
type RegisterInput struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"omitempty,username"`
	Password        string `json:"password" validate:"required,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginInput входные данные входа
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session результат успешной регистрации или входа
// User всегда без хеша пароля
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Service предоставляет функции аутентификации
type Service struct {
	repo   *users.Repository
	tokens *token.Service
	logger *slog.Logger
}

// NewService создает новый сервис аутентификации
func NewService(repo *users.Repository, tokens *token.Service, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Register регистрирует нового пользователя и сразу выдает session token
// Порядок строгий: валидация → проверка email → хеширование → запись → токен
// До завершения всех проверок состояние не мутируется
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	// Username опционален: генерируем читаемый fallback
	username := input.Username
	if username == "" {
		username = GenerateUsername()
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, users.ErrEmailTaken
	} else if !errors.Is(err, users.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		Username:     username,
		Nickname:     username,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Status:       models.StatusActive,
		CreatedAt:    time.Now(),
		Preferences:  models.DefaultPreferences(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	tokenString, err := s.tokens.Issue(created.ID, created.Email, created.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user registered", "user_id", created.ID, "username", created.Username)

	return &Session{
		Token: tokenString,
		User:  created.Sanitized(),
	}, nil
}

// Login аутентифицирует пользователя по email и паролю
// Проверка пароля строго предшествует проверке бана: заблокированный
// пользователь узнает о бане только после корректной аутентификации
func (s *Service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := crypto.VerifyPassword(input.Password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.IsBanned() {
		return nil, &BannedError{Reason: user.BanReason}
	}

	tokenString, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	now := time.Now()
	updated, err := s.repo.Update(ctx, user.ID, users.Update{LastLoginAt: &now})
	if err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &Session{
		Token: tokenString,
		User:  updated.Sanitized(),
	}, nil
}

// VerifySession проверяет session token и возвращает его claims
// Не обращается к репозиторию: токен самодостаточен
func (s *Service) VerifySession(tokenString string) (*token.Claims, error) {
	return s.tokens.Verify(tokenString)
}
