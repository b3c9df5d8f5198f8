package models

import "time"

// Session — серверная сессия с непрозрачным bearer-токеном.
// Сессия считается действительной, пока expires_at в будущем;
// фонового вычищения нет, проверка происходит при чтении.
type Session struct {
	Token     string    `json:"session_token"`
	UserUID   string    `json:"user_uid"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
