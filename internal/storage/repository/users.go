package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/barakahtool/barakah-backend/internal/models"
)

// UpsertUser создаёт пользователя по email или обновляет его имя,
// если такой email уже зарегистрирован. Email должен быть приведён
// к нижнему регистру вызывающей стороной.
func (s *Storage) UpsertUser(ctx context.Context, uid, email, name string) (*models.User, error) {
	const op = "storage.UpsertUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (uid, email, name)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
			  RETURNING uid, email, name, password_hash, role, stripe_customer_id, created_at, last_login`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, uid, email, name), op)
}

// RegisterUser сохраняет нового пользователя с паролем.
// Если email уже занят пользователем без пароля (создан при оплате),
// запись дополняется паролем и именем.
func (s *Storage) RegisterUser(ctx context.Context, uid, email, name, passwordHash string) (*models.User, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (uid, email, name, password_hash)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (email) DO UPDATE
			  SET name = EXCLUDED.name,
			      password_hash = EXCLUDED.password_hash
			  WHERE users.password_hash = ''
			  RETURNING uid, email, name, password_hash, role, stripe_customer_id, created_at, last_login`
	u, err := s.scanUser(s.DB.QueryRowContext(ctx, query, uid, email, name, passwordHash), op)
	if err != nil {
		// Конфликт с пользователем, у которого уже задан пароль:
		// условный upsert не вернул строку.
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrAlreadyExists)
		}
		return nil, err
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, name, password_hash, role, stripe_customer_id, created_at, last_login
			  FROM users
			  WHERE email = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, name, password_hash, role, stripe_customer_id, created_at, last_login
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// UpdateLastLogin фиксирует время последнего входа пользователя.
func (s *Storage) UpdateLastLogin(ctx context.Context, userUID string) error {
	const op = "storage.UpdateLastLogin"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET last_login = NOW() WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateStripeCustomerID сохраняет внешний платёжный идентификатор пользователя.
func (s *Storage) UpdateStripeCustomerID(ctx context.Context, userUID, customerID string) error {
	const op = "storage.UpdateStripeCustomerID"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET stripe_customer_id = $1 WHERE uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, customerID, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUsersWithPurchases возвращает всех пользователей с количеством
// купленных продуктов и датой последней покупки.
func (s *Storage) ListUsersWithPurchases(ctx context.Context) ([]*models.UserSummary, error) {
	const op = "storage.ListUsersWithPurchases"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      u.uid, u.email, u.name, u.role, u.created_at, u.last_login,
			      COUNT(ua.user_uid) FILTER (WHERE ua.has_access) AS purchased_count,
			      MAX(ua.purchased_at) AS last_purchase
			  FROM users u
			  LEFT JOIN user_access ua ON u.uid = ua.user_uid
			  GROUP BY u.uid, u.email, u.name, u.role, u.created_at, u.last_login
			  ORDER BY u.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.UserSummary
	for rows.Next() {
		var us models.UserSummary
		var lastLogin, lastPurchase sql.NullTime
		if err := rows.Scan(&us.UID, &us.Email, &us.Name, &us.Role, &us.CreatedAt,
			&lastLogin, &us.PurchasedCount, &lastPurchase); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if lastLogin.Valid {
			us.LastLogin = &lastLogin.Time
		}
		if lastPurchase.Valid {
			us.LastPurchase = &lastPurchase.Time
		}
		result = append(result, &us)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var stripeCustomerID sql.NullString
	var lastLogin sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.Name, &u.PasswordHash, &u.Role,
		&stripeCustomerID, &u.CreatedAt, &lastLogin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if stripeCustomerID.Valid {
		u.StripeCustomerID = &stripeCustomerID.String
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return u, nil
}
