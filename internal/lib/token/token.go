// Package token генерирует непрозрачные сессионные токены.
//
// Токен — 32 случайных байта из криптографического генератора,
// закодированные в hex. Значение хранится только на сервере и
// используется как bearer-токен сессии.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Length длина токена в байтах до кодирования.
const Length = 32

// New возвращает новый случайный сессионный токен.
func New() (string, error) {
	const op = "token.New"
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(buf), nil
}
