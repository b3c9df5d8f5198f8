// Package usage ведёт журнал использования купленных продуктов.
//
// Журнал пишется фронтендом при каждом обращении к продукту и служит
// только для аналитики: запись добавляется без предварительных проверок.
package usage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/barakahtool/barakah-backend/internal/models"
)

type Repository interface {
	LogUsage(ctx context.Context, entry models.UsageEntry) (int, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Log добавляет запись журнала использования.
func (s *Service) Log(ctx context.Context, entry models.UsageEntry) (int, error) {
	const op = "usage.Log"

	id, err := s.repo.LogUsage(ctx, entry)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}
