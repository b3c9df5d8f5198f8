package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/barakahtool/barakah-backend/internal/models"
)

// CreateSession сохраняет новую сессию пользователя.
func (s *Storage) CreateSession(ctx context.Context, token, userUID string, expiresAt time.Time) (*models.Session, error) {
	const op = "storage.CreateSession"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_sessions (token, user_uid, expires_at)
			  VALUES ($1, $2, $3)
			  RETURNING token, user_uid, expires_at, created_at`
	var sess models.Session
	if err := s.DB.QueryRowContext(ctx, query, token, userUID, expiresAt).Scan(
		&sess.Token, &sess.UserUID, &sess.ExpiresAt, &sess.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sess, nil
}

// GetUserBySessionToken возвращает пользователя действующей сессии.
//
// Неизвестный и истёкший токены дают один и тот же результат —
// ErrSessionInvalid, чтобы по ответу нельзя было перебирать токены.
func (s *Storage) GetUserBySessionToken(ctx context.Context, sessionToken string) (*models.User, error) {
	const op = "storage.GetUserBySessionToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.uid, u.email, u.name, u.password_hash, u.role,
			      u.stripe_customer_id, u.created_at, u.last_login
			  FROM user_sessions s
			  JOIN users u ON s.user_uid = u.uid
			  WHERE s.token = $1 AND s.expires_at > NOW()`
	u, err := s.scanUser(s.DB.QueryRowContext(ctx, query, sessionToken), op)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSessionInvalid)
		}
		return nil, err
	}
	return u, nil
}

// DeleteSession удаляет сессию по токену. Отсутствие токена не ошибка:
// выход из системы идемпотентен.
func (s *Storage) DeleteSession(ctx context.Context, sessionToken string) error {
	const op = "storage.DeleteSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM user_sessions WHERE token = $1`
	if _, err := s.DB.ExecContext(ctx, query, sessionToken); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
