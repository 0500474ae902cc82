package users

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anivault/anivault/internal/crypto"
	"github.com/anivault/anivault/internal/models"
	"github.com/anivault/anivault/internal/token"
	"github.com/anivault/anivault/internal/validation"
)

// ProfileInput описывает изменения профиля, доступные владельцу учетной записи
type ProfileInput struct {
	Nickname    *string `validate:"omitempty,min=3,max=30"`
	Bio         *string `validate:"omitempty,max=500"`
	Avatar      *string `validate:"omitempty,url"`
	Preferences *models.Preferences
}

// Service реализует административные операции над пользователями
// и обновление профиля. Правила привилегий (admin нельзя забанить,
// удалить или понизить) обеспечиваются репозиторием; сервис дублирует
// только те проверки, о которых вызывающему нужно знать явно.
type Service struct {
	repo   *Repository
	tokens *token.Service
	logger *slog.Logger
}

// NewService создает новый сервис управления пользователями
func NewService(repo *Repository, tokens *token.Service, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// List возвращает все учетные записи без хешей паролей
func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.User, 0, len(all))
	for _, u := range all {
		out = append(out, u.Sanitized())
	}

	return out, nil
}

// Get возвращает учетную запись без хеша пароля
func (s *Service) Get(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Sanitized(), nil
}

// Ban блокирует учетную запись с указанием причины
// Для зарезервированного admin id — no-op: администратора забанить нельзя
func (s *Service) Ban(ctx context.Context, userID, reason string) error {
	if userID == s.repo.AdminID() {
		s.logger.Warn("ignored attempt to ban the default admin")
		return nil
	}

	now := time.Now()
	banned := models.StatusBanned
	_, err := s.repo.Update(ctx, userID, Update{
		Status:    &banned,
		BanReason: &reason,
		BannedAt:  &now,
	})
	if err != nil {
		return err
	}

	s.logger.Info("user banned", "user_id", userID)
	return nil
}

// Unban возвращает учетную запись в ACTIVE, очищая причину и отметку бана
// Разбан уже активного пользователя — no-op, не ошибка
func (s *Service) Unban(ctx context.Context, userID string) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !u.IsBanned() {
		return nil
	}

	active := models.StatusActive
	if _, err := s.repo.Update(ctx, userID, Update{Status: &active}); err != nil {
		return err
	}

	s.logger.Info("user unbanned", "user_id", userID)
	return nil
}

// SetRole меняет роль пользователя и возвращает свежий session token,
// отражающий новую роль. Старые токены не отзываются — если цель является
// субъектом активной сессии, держатель обязан заменить свой токен
// возвращенным, иначе устаревшие claims продолжат действовать до истечения.
// Для зарезервированного admin id роль не меняется (правило репозитория);
// токен в этом случае выпускается с фактической ролью записи.
func (s *Service) SetRole(ctx context.Context, userID string, role models.Role) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", validation.ErrInvalidInput, role)
	}

	updated, err := s.repo.Update(ctx, userID, Update{Role: &role})
	if err != nil {
		return "", err
	}

	fresh, err := s.tokens.Issue(updated.ID, updated.Email, updated.Role)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user role changed", "user_id", userID, "role", string(updated.Role))
	return fresh, nil
}

// ResetPassword хеширует и сохраняет новый пароль пользователя
// Существующие сессии не инвалидируются: отзыв токенов не поддерживается
// Для зарезервированного admin id хеш молча не применяется (правило репозитория)
func (s *Service) ResetPassword(ctx context.Context, userID, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.repo.Update(ctx, userID, Update{PasswordHash: &hash}); err != nil {
		return err
	}

	s.logger.Info("user password reset", "user_id", userID)
	return nil
}

// Delete удаляет учетную запись
// Для зарезервированного admin id и несуществующих id — no-op
func (s *Service) Delete(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("user deleted", "user_id", userID)
	return nil
}

// UpdateProfile применяет изменения профиля владельца учетной записи
// Список любимых аниме ограничен MaxFavoriteAnime
func (s *Service) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*models.User, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	if input.Preferences != nil {
		p := input.Preferences
		if p.Theme != "light" && p.Theme != "dark" {
			return nil, fmt.Errorf("%w: theme must be light or dark", validation.ErrInvalidInput)
		}
		if len(p.FavoriteAnime) > models.MaxFavoriteAnime {
			return nil, fmt.Errorf("%w: at most %d favorite anime allowed", validation.ErrInvalidInput, models.MaxFavoriteAnime)
		}
	}

	updated, err := s.repo.Update(ctx, userID, Update{
		Nickname:    input.Nickname,
		Bio:         input.Bio,
		Avatar:      input.Avatar,
		Preferences: input.Preferences,
	})
	if err != nil {
		return nil, err
	}

	return updated.Sanitized(), nil
}
