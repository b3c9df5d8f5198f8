package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/barakahtool/barakah-backend/internal/models"
)

// CheckAccess возвращает значение has_access для пары (user_uid, product_type).
// Отсутствие строки — это не ошибка, а отсутствие доступа.
func (s *Storage) CheckAccess(ctx context.Context, userUID, productType string) (bool, error) {
	const op = "storage.CheckAccess"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT has_access FROM user_access
			  WHERE user_uid = $1 AND product_type = $2`
	var hasAccess bool
	err := s.DB.QueryRowContext(ctx, query, userUID, productType).Scan(&hasAccess)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return hasAccess, nil
}

// CheckAccessByEmail возвращает has_access и uid пользователя по email.
func (s *Storage) CheckAccessByEmail(ctx context.Context, email, productType string) (bool, string, error) {
	const op = "storage.CheckAccessByEmail"
	select {
	case <-ctx.Done():
		return false, "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ua.has_access, u.uid
			  FROM user_access ua
			  JOIN users u ON ua.user_uid = u.uid
			  WHERE u.email = $1 AND ua.product_type = $2`
	var hasAccess bool
	var userUID string
	err := s.DB.QueryRowContext(ctx, query, email, productType).Scan(&hasAccess, &userUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, "", nil
		}
		return false, "", fmt.Errorf("%s: %w", op, err)
	}
	return hasAccess, userUID, nil
}

// ListAccessByUser возвращает все записи доступа пользователя.
func (s *Storage) ListAccessByUser(ctx context.Context, userUID string) ([]*models.AccessGrant, error) {
	const op = "storage.ListAccessByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, email, product_type, has_access, payment_status, purchased_at, expires_at
			  FROM user_access
			  WHERE user_uid = $1
			  ORDER BY purchased_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.AccessGrant
	for rows.Next() {
		var ag models.AccessGrant
		var expiresAt sql.NullTime
		if err := rows.Scan(&ag.UserUID, &ag.Email, &ag.ProductType, &ag.HasAccess,
			&ag.PaymentStatus, &ag.PurchasedAt, &expiresAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if expiresAt.Valid {
			ag.ExpiresAt = &expiresAt.Time
		}
		result = append(result, &ag)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RevokeAccess снимает доступ к продукту; productType "all" снимает все.
// Возвращает количество затронутых строк.
func (s *Storage) RevokeAccess(ctx context.Context, userUID, productType string) (int, error) {
	const op = "storage.RevokeAccess"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE user_access
			  SET has_access = false, expires_at = NOW()
			  WHERE user_uid = $1 AND ($2 = 'all' OR product_type = $2)`
	result, err := s.DB.ExecContext(ctx, query, userUID, productType)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
