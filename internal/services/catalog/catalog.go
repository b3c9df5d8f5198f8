// Package catalog отдаёт каталог продуктов.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/barakahtool/barakah-backend/internal/models"
)

type Repository interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProductByType(ctx context.Context, productType string) (*models.Product, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List возвращает активные продукты каталога.
func (s *Service) List(ctx context.Context) ([]*models.Product, error) {
	const op = "catalog.List"

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// Get возвращает активный продукт по его ключу.
func (s *Service) Get(ctx context.Context, productType string) (*models.Product, error) {
	const op = "catalog.Get"

	product, err := s.repo.GetProductByType(ctx, productType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}
