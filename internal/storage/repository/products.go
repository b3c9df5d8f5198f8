package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/barakahtool/barakah-backend/internal/models"
)

// ListProducts возвращает все активные продукты каталога.
func (s *Storage) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price_cents, product_type, stripe_price_id, is_active
			  FROM products
			  WHERE is_active = true
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetProductByType возвращает активный продукт по его ключу product_type.
func (s *Storage) GetProductByType(ctx context.Context, productType string) (*models.Product, error) {
	const op = "storage.GetProductByType"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price_cents, product_type, stripe_price_id, is_active
			  FROM products
			  WHERE product_type = $1 AND is_active = true`
	row := s.DB.QueryRowContext(ctx, query, productType)

	p, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrProductNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func scanProduct(scan func(dest ...any) error) (*models.Product, error) {
	var p models.Product
	var stripePriceID sql.NullString
	if err := scan(&p.ID, &p.Name, &p.Description, &p.PriceCents,
		&p.ProductType, &stripePriceID, &p.IsActive); err != nil {
		return nil, err
	}
	if stripePriceID.Valid {
		p.StripePriceID = &stripePriceID.String
	}
	return &p, nil
}
