package models

import "time"

// Role определяет уровень привилегий пользователя
type Role string

const (
	// RoleUser обычный пользователь
	RoleUser Role = "USER"
	// RoleAdmin администратор (управление контентом и пользователями)
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Status определяет состояние учетной записи
type Status string

const (
	// StatusActive активная учетная запись
	StatusActive Status = "ACTIVE"
	// StatusBanned заблокированная учетная запись
	StatusBanned Status = "BANNED"
)

// MaxFavoriteAnime caps the favorite list a user may keep in preferences.
const MaxFavoriteAnime = 5

// Preferences содержит настройки пользователя
// Изменяются только самим владельцем учетной записи
type Preferences struct {
	Theme              string   `json:"theme"`              // light | dark
	EmailNotifications bool     `json:"emailNotifications"` // рассылка уведомлений
	Language           string   `json:"language"`           // код языка интерфейса
	FavoriteAnime      []string `json:"favoriteAnimes,omitempty"`
}

// DefaultPreferences возвращает настройки по умолчанию для нового пользователя
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:              "dark",
		EmailNotifications: false,
		Language:           "en",
	}
}

// User представляет пользователя в системе
// Поле PasswordHash сериализуется под ключом "password" — формат хранения
// совместим с JSON-представлением пользователей в key-value store
type User struct {
	ID            string      `json:"id"`       // UUID пользователя
	Email         string      `json:"email"`    // уникальный (case-insensitive) login
	Username      string      `json:"username"` // отображаемое имя
	Nickname      string      `json:"nickname,omitempty"`
	Bio           string      `json:"bio,omitempty"`
	Avatar        string      `json:"avatar,omitempty"`
	PasswordHash  string      `json:"password,omitempty"` // bcrypt хеш, никогда не отдается наружу
	Role          Role        `json:"role"`
	Status        Status      `json:"status"`
	BanReason     string      `json:"banReason,omitempty"`
	BannedAt      *time.Time  `json:"bannedAt,omitempty"`
	EmailVerified bool        `json:"emailVerified"`
	CreatedAt     time.Time   `json:"createdAt"`
	LastLoginAt   *time.Time  `json:"lastLoginAt,omitempty"`
	Preferences   Preferences `json:"preferences"`
}

// IsBanned reports whether the account is currently banned.
func (u *User) IsBanned() bool {
	return u.Status == StatusBanned
}

// IsAdmin reports whether the account has administrator privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Sanitized возвращает копию пользователя без хеша пароля
// Все сервисы отдают наружу только такие копии
func (u *User) Sanitized() *User {
	out := u.Clone()
	out.PasswordHash = ""
	return out
}

// Clone возвращает глубокую копию записи (включая хеш пароля)
func (u *User) Clone() *User {
	out := *u
	if u.BannedAt != nil {
		t := *u.BannedAt
		out.BannedAt = &t
	}
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		out.LastLoginAt = &t
	}
	if u.Preferences.FavoriteAnime != nil {
		out.Preferences.FavoriteAnime = append([]string(nil), u.Preferences.FavoriteAnime...)
	}
	return &out
}
