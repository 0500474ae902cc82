package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/anivault/anivault/internal/models"
)

// DefaultTTL срок жизни session token
const DefaultTTL = 24 * time.Hour

// ErrInvalidToken возвращается при невалидной подписи, malformed токене
// или истекшем сроке действия. Причины не различаются: клиент в любом
// случае должен пройти аутентификацию заново.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims представляет JWT claims сессии
type Claims struct {
	UserID string      `json:"userId"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service provides session token generation and verification.
// Tokens are self-contained: verification never touches user storage.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a new token service.
// secret should be a cryptographically secure random string; rotating it
// invalidates all outstanding tokens.
func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue creates a signed session token carrying the user's identity and role.
func (s *Service) Issue(userID, email string, role models.Role) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "anivault",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify validates the signature and expiry and returns the embedded claims.
// Returns ErrInvalidToken for any failure; the unverified payload is never
// partially trusted.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
