package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/anivault/anivault/internal/models"
	"github.com/anivault/anivault/internal/storage"
)

// usersKey ключ в key-value store под которым хранится весь набор пользователей
const usersKey = "users"

// Common repository errors
var (
	// ErrUserNotFound indicates that user was not found in the repository
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates that a user with this email already exists
	ErrEmailTaken = errors.New("email already registered")
)

// Update описывает частичное обновление записи пользователя
// nil-поле означает "не менять"
type Update struct {
	Email         *string
	Username      *string
	Nickname      *string
	Bio           *string
	Avatar        *string
	PasswordHash  *string
	Role          *models.Role
	Status        *models.Status
	BanReason     *string
	BannedAt      *time.Time
	LastLoginAt   *time.Time
	EmailVerified *bool
	Preferences   *models.Preferences
}

// Repository владеет каноническим набором пользователей
// Весь набор загружается один раз при создании и целиком переписывается
// в key-value store при каждой мутации. Запись с зарезервированным admin id
// гарантированно присутствует после любой загрузки.
type Repository struct {
	kv     storage.KVStore
	logger *slog.Logger
	admin  models.User // канонический bootstrap admin, пароль уже захеширован
	mu     sync.Mutex
	users  []*models.User
}

// NewRepository создает репозиторий и загружает пользователей из store
// admin должен содержать ID, Email и PasswordHash; роль и статус
// принудительно выставляются в ADMIN/ACTIVE
func NewRepository(ctx context.Context, kv storage.KVStore, admin models.User, logger *slog.Logger) (*Repository, error) {
	if admin.ID == "" {
		return nil, fmt.Errorf("bootstrap admin must have an id")
	}
	if admin.Email == "" {
		return nil, fmt.Errorf("bootstrap admin must have an email")
	}
	if admin.PasswordHash == "" {
		return nil, fmt.Errorf("bootstrap admin must have a password hash")
	}

	admin.Role = models.RoleAdmin
	admin.Status = models.StatusActive
	admin.BanReason = ""
	admin.BannedAt = nil

	r := &Repository{
		kv:     kv,
		logger: logger,
		admin:  admin,
	}

	if err := r.load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	return r, nil
}

// AdminID возвращает зарезервированный идентификатор администратора
func (r *Repository) AdminID() string {
	return r.admin.ID
}

// load читает набор пользователей из store и восстанавливает инварианты:
// ровно одна запись с admin id, role ADMIN, status ACTIVE, учетные поля
// из bootstrap конфигурации. Поврежденный store деградирует до одного admin.
func (r *Repository) load(ctx context.Context) error {
	raw, err := r.kv.Get(ctx, usersKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			r.users = []*models.User{r.admin.Clone()}
			return nil
		}
		return fmt.Errorf("failed to read store: %w", err)
	}

	var stored []*models.User
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		// Поврежденные данные не фатальны: начинаем с одного администратора
		r.logger.Warn("corrupted user set in store, resetting", "error", err)
		r.users = []*models.User{r.admin.Clone()}
		return nil
	}

	admin := r.admin.Clone()
	loaded := []*models.User{admin}

	for _, u := range stored {
		if u == nil || u.ID == "" {
			continue
		}
		if u.ID == r.admin.ID {
			// Изменяемые поля admin (nickname, lastLoginAt, ...) берем из store,
			// учетные поля всегда из bootstrap конфигурации
			admin.Username = u.Username
			admin.Nickname = u.Nickname
			admin.Bio = u.Bio
			admin.Avatar = u.Avatar
			admin.LastLoginAt = u.LastLoginAt
			admin.Preferences = u.Preferences
			if !u.CreatedAt.IsZero() {
				admin.CreatedAt = u.CreatedAt
			}
			continue
		}
		if u.Status == "" {
			u.Status = models.StatusActive
		}
		loaded = append(loaded, u)
	}

	r.users = loaded
	return nil
}

// persist сериализует весь набор и переписывает его в store целиком
// Вызывается под мьютексом после каждой мутации
func (r *Repository) persist(ctx context.Context) error {
	data, err := json.Marshal(r.users)
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}

	if err := r.kv.Set(ctx, usersKey, string(data)); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}

	return nil
}

// List возвращает защитные копии всех записей (включая хеши паролей —
// вызывающие сервисы обязаны отдавать наружу только Sanitized копии)
func (r *Repository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u.Clone())
	}

	return out, nil
}

// FindByEmail ищет пользователя по email (case-insensitive)
// Returns ErrUserNotFound if user doesn't exist
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u.Clone(), nil
		}
	}

	return nil, ErrUserNotFound
}

// FindByID ищет пользователя по идентификатору
// Returns ErrUserNotFound if user doesn't exist
func (r *Repository) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.findByID(id)
	if u == nil {
		return nil, ErrUserNotFound
	}

	return u.Clone(), nil
}

// Create добавляет нового пользователя и переписывает набор в store
// Returns ErrEmailTaken if the email is already registered (case-insensitive)
func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, ErrEmailTaken
		}
	}

	stored := user.Clone()
	if stored.Status == "" {
		stored.Status = models.StatusActive
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	if stored.Preferences.Theme == "" && stored.Preferences.Language == "" {
		stored.Preferences = models.DefaultPreferences()
	}

	r.users = append(r.users, stored)

	if err := r.persist(ctx); err != nil {
		// Состояние не должно меняться при неудачной записи
		r.users = r.users[:len(r.users)-1]
		return nil, err
	}

	return stored.Clone(), nil
}

// Update применяет частичное обновление к записи
// Для записи с admin id поля Email, PasswordHash, Role и Status молча
// отбрасываются (правило защиты администратора — не ошибка)
// Returns ErrUserNotFound if user doesn't exist
func (r *Repository) Update(ctx context.Context, id string, upd Update) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.findByID(id)
	if u == nil {
		return nil, ErrUserNotFound
	}

	if id == r.admin.ID {
		upd.Email = nil
		upd.PasswordHash = nil
		upd.Role = nil
		upd.Status = nil
		upd.BanReason = nil
		upd.BannedAt = nil
	}

	prev := u.Clone()
	applyUpdate(u, upd)

	if err := r.persist(ctx); err != nil {
		*u = *prev
		return nil, err
	}

	return u.Clone(), nil
}

// Delete удаляет запись; для admin id и несуществующих id — no-op
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == r.admin.ID {
		return nil
	}

	idx := -1
	for i, u := range r.users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	removed := r.users[idx]
	r.users = append(r.users[:idx], r.users[idx+1:]...)

	if err := r.persist(ctx); err != nil {
		r.users = append(r.users[:idx], append([]*models.User{removed}, r.users[idx:]...)...)
		return err
	}

	return nil
}

// findByID ищет запись без копирования; вызывается под мьютексом
func (r *Repository) findByID(id string) *models.User {
	for _, u := range r.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// applyUpdate накладывает ненулевые поля upd на запись
// Переход статуса в ACTIVE очищает banReason/bannedAt
func applyUpdate(u *models.User, upd Update) {
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Nickname != nil {
		u.Nickname = *upd.Nickname
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.Avatar != nil {
		u.Avatar = *upd.Avatar
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.BanReason != nil {
		u.BanReason = *upd.BanReason
	}
	if upd.BannedAt != nil {
		t := *upd.BannedAt
		u.BannedAt = &t
	}
	if upd.LastLoginAt != nil {
		t := *upd.LastLoginAt
		u.LastLoginAt = &t
	}
	if upd.EmailVerified != nil {
		u.EmailVerified = *upd.EmailVerified
	}
	if upd.Preferences != nil {
		p := *upd.Preferences
		if p.FavoriteAnime != nil {
			p.FavoriteAnime = append([]string(nil), p.FavoriteAnime...)
		}
		u.Preferences = p
	}
	if upd.Status != nil {
		u.Status = *upd.Status
		if u.Status == models.StatusActive {
			u.BanReason = ""
			u.BannedAt = nil
		}
	}
}
