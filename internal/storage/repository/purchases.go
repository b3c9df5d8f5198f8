package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/barakahtool/barakah-backend/internal/models"
)

// ReconcilePayment атомарно фиксирует завершённый платёж: upsert покупки
// по уникальному stripe_payment_intent_id и upsert права доступа по паре
// (user_uid, product_type) выполняются в одной транзакции.
//
// Транзакция держит advisory-блокировку по ключу платежа, поэтому
// параллельные попытки реконсиляции одного платежа (webhook и
// verify-payment) сериализуются: вторая попытка схлопывается в no-op.
func (s *Storage) ReconcilePayment(ctx context.Context, event models.PaymentEvent, productID int) (int, error) {
	const op = "storage.ReconcilePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Сериализация по ключу платежа; блокировка снимается при завершении транзакции.
	if _, err = tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`, event.PaymentIntentID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var purchaseID int
	query := `INSERT INTO user_purchases
			      (user_uid, product_id, stripe_payment_intent_id, stripe_session_id,
			       amount_paid_cents, currency, payment_status, purchased_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			  ON CONFLICT (stripe_payment_intent_id)
			  DO UPDATE SET payment_status = $7
			  RETURNING id`
	if err = tx.QueryRowContext(ctx, query,
		event.UserUID, productID, event.PaymentIntentID, event.SessionID,
		event.AmountCents, event.Currency, models.PaymentStatusCompleted).Scan(&purchaseID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query = `INSERT INTO user_access
			     (user_uid, email, product_type, has_access, payment_status, purchased_at)
			 VALUES ($1, $2, $3, true, $4, NOW())
			 ON CONFLICT (user_uid, product_type)
			 DO UPDATE SET has_access = true, payment_status = $4, purchased_at = NOW()`
	if _, err = tx.ExecContext(ctx, query,
		event.UserUID, event.UserEmail, event.ProductType, models.PaymentStatusCompleted); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return purchaseID, nil
}

// GetPurchaseByPaymentIntent возвращает покупку по внешнему идентификатору платежа.
func (s *Storage) GetPurchaseByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Purchase, error) {
	const op = "storage.GetPurchaseByPaymentIntent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, product_id, stripe_payment_intent_id, stripe_session_id,
			      amount_paid_cents, currency, payment_status, purchased_at, expires_at
			  FROM user_purchases
			  WHERE stripe_payment_intent_id = $1`
	row := s.DB.QueryRowContext(ctx, query, paymentIntentID)

	var p models.Purchase
	var expiresAt sql.NullTime
	if err := row.Scan(&p.ID, &p.UserUID, &p.ProductID, &p.PaymentIntentID, &p.SessionID,
		&p.AmountPaidCents, &p.Currency, &p.PaymentStatus, &p.PurchasedAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, sql.ErrNoRows)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if expiresAt.Valid {
		p.ExpiresAt = &expiresAt.Time
	}
	return &p, nil
}

// CountPurchasesByPaymentIntent подсчитывает записи покупок по ключу платежа.
// Используется в тестах инварианта идемпотентности.
func (s *Storage) CountPurchasesByPaymentIntent(ctx context.Context, paymentIntentID string) (int, error) {
	const op = "storage.CountPurchasesByPaymentIntent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM user_purchases WHERE stripe_payment_intent_id = $1`
	if err := s.DB.QueryRowContext(ctx, query, paymentIntentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListPurchasesByUser возвращает покупки пользователя, новые первыми.
func (s *Storage) ListPurchasesByUser(ctx context.Context, userUID string) ([]*models.Purchase, error) {
	const op = "storage.ListPurchasesByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, product_id, stripe_payment_intent_id, stripe_session_id,
			      amount_paid_cents, currency, payment_status, purchased_at, expires_at
			  FROM user_purchases
			  WHERE user_uid = $1
			  ORDER BY purchased_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Purchase
	for rows.Next() {
		var p models.Purchase
		var expiresAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.UserUID, &p.ProductID, &p.PaymentIntentID, &p.SessionID,
			&p.AmountPaidCents, &p.Currency, &p.PaymentStatus, &p.PurchasedAt, &expiresAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if expiresAt.Valid {
			p.ExpiresAt = &expiresAt.Time
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
