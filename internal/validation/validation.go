package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput сентинел для всех ошибок валидации входных данных
// Вызывающая сторона показывает сообщение пользователю и запрашивает ввод заново
var ErrInvalidInput = errors.New("invalid input")

// UsernamePattern определяет допустимый формат username
// Только латинские буквы (a-z, A-Z), цифры (0-9), нижнее подчеркивание (_)
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

const (
	// MinUsernameLen минимальная длина username
	MinUsernameLen = 3
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 20
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
)

var (
	upperPattern  = regexp.MustCompile(`[A-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
	symbolPattern = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

var structValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// username: полная политика формата и длины
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return ValidateUsername(fl.Field().String()) == nil
	}); err != nil {
		panic(err)
	}

	// password: полная политика сложности
	if err := v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidatePassword(fl.Field().String()) == nil
	}); err != nil {
		panic(err)
	}

	return v
}

// Struct проверяет структуру с validate-тегами и возвращает первое
// нарушенное правило, обернутое в ErrInvalidInput
func Struct(dst any) error {
	err := structValidator.Struct(dst)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return fmt.Errorf("%w: invalid payload", ErrInvalidInput)
	}

	first := validationErrors[0]
	field := strings.ToLower(first.Field())

	switch first.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	case "email":
		return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	case "min":
		return fmt.Errorf("%w: %s must be at least %s characters", ErrInvalidInput, field, first.Param())
	case "max":
		return fmt.Errorf("%w: %s must be less than %s characters", ErrInvalidInput, field, first.Param())
	case "eqfield":
		return fmt.Errorf("%w: passwords don't match", ErrInvalidInput)
	case "username":
		// Уточняем какое именно правило нарушено
		if v, ok := first.Value().(string); ok {
			if uerr := ValidateUsername(v); uerr != nil {
				return uerr
			}
		}
		return fmt.Errorf("%w: invalid username", ErrInvalidInput)
	case "password":
		// Уточняем какое именно правило сложности нарушено
		if v, ok := first.Value().(string); ok {
			if perr := ValidatePassword(v); perr != nil {
				return perr
			}
		}
		return fmt.Errorf("%w: invalid password", ErrInvalidInput)
	default:
		return fmt.Errorf("%w: invalid %s", ErrInvalidInput, field)
	}
}

// ValidatePassword проверяет политику сложности пароля:
// минимум 8 символов, хотя бы одна заглавная буква, цифра и спецсимвол
// Возвращает первое нарушенное правило
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLen)
	}
	if !upperPattern.MatchString(password) {
		return fmt.Errorf("%w: password must contain at least 1 uppercase letter", ErrInvalidInput)
	}
	if !digitPattern.MatchString(password) {
		return fmt.Errorf("%w: password must contain at least 1 number", ErrInvalidInput)
	}
	if !symbolPattern.MatchString(password) {
		return fmt.Errorf("%w: password must contain at least 1 special character", ErrInvalidInput)
	}
	return nil
}

// ValidateUsername проверяет, что username соответствует требованиям
// Формат: латинские буквы, цифры, нижнее подчеркивание; длина 3-20 символов
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(username) < MinUsernameLen {
		return fmt.Errorf("%w: username must be at least %d characters", ErrInvalidInput, MinUsernameLen)
	}
	if len(username) > MaxUsernameLen {
		return fmt.Errorf("%w: username must be less than %d characters", ErrInvalidInput, MaxUsernameLen)
	}
	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("%w: username can only contain letters, numbers, and underscores", ErrInvalidInput)
	}
	return nil
}
