package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost фиксированный work factor для хеширования паролей
// Изменение стоимости не инвалидирует старые хеши: bcrypt хранит cost в самом хеше
const BcryptCost = 10

// ErrPasswordMismatch возвращается когда пароль не соответствует хешу
// Некорректный формат хеша тоже дает mismatch, не отдельную ошибку (fail closed)
var ErrPasswordMismatch = errors.New("password mismatch")

// HashPassword хеширует пароль с использованием bcrypt
// Соль генерируется внутри bcrypt, результат — self-describing строка
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword проверяет, соответствует ли пароль сохраненному хешу
// Возвращает ErrPasswordMismatch при несовпадении или malformed хеше
func VerifyPassword(password, hash string) error {
	if password == "" {
		return ErrPasswordMismatch
	}
	if hash == "" {
		return ErrPasswordMismatch
	}

	// Сравнение внутри bcrypt устойчиво к timing-атакам
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}

	return nil
}
