// Package user реализует операции каталога пользователей.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/barakahtool/barakah-backend/internal/models"
)

type Repository interface {
	UpsertUser(ctx context.Context, uid, email, name string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsersWithPurchases(ctx context.Context) ([]*models.UserSummary, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Upsert создаёт пользователя по email или обновляет имя существующего.
// Email сравнивается без учёта регистра.
func (s *Service) Upsert(ctx context.Context, email, name string) (*models.User, error) {
	const op = "user.Upsert"

	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.repo.UpsertUser(ctx, uuid.NewString(), email, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetByEmail возвращает пользователя по email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "user.GetByEmail"

	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListWithPurchases возвращает всех пользователей с агрегатами покупок.
// Административная операция.
func (s *Service) ListWithPurchases(ctx context.Context) ([]*models.UserSummary, error) {
	const op = "user.ListWithPurchases"

	users, err := s.repo.ListUsersWithPurchases(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}
