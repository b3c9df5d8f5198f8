// Package access отвечает на вопрос "есть ли у пользователя доступ
// к продукту". Чтения кешируются в Redis на короткий срок, выдача и
// отзыв доступа кеш инвалидируют.
package access

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/barakahtool/barakah-backend/internal/lib/sl"
	"github.com/barakahtool/barakah-backend/internal/models"
)

// TTL кеша проверки доступа. Короткий, чтобы отзыв доступа
// администратором распространялся быстро даже при промахе инвалидации.
const cacheTTL = 5 * time.Minute

type Repository interface {
	CheckAccess(ctx context.Context, userUID, productType string) (bool, error)
	CheckAccessByEmail(ctx context.Context, email, productType string) (bool, string, error)
	ListAccessByUser(ctx context.Context, userUID string) ([]*models.AccessGrant, error)
	ReconcilePayment(ctx context.Context, event models.PaymentEvent, productID int) (int, error)
	RevokeAccess(ctx context.Context, userUID, productType string) (int, error)
	GetProductByType(ctx context.Context, productType string) (*models.Product, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создаёт сервис доступа. cache может быть nil, тогда каждая
// проверка идёт в базу.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

func cacheKey(userUID, productType string) string {
	return fmt.Sprintf("access:%s:%s", userUID, productType)
}

// Check возвращает, есть ли у пользователя действующий доступ
// к продукту. Отсутствие записи — это false, а не ошибка.
func (s *Service) Check(ctx context.Context, userUID, productType string) (bool, error) {
	const op = "access.Check"

	if s.cache != nil {
		var cached bool
		found, err := s.cache.Get(cacheKey(userUID, productType), &cached)
		if err != nil {
			s.log.Warn("access cache read failed", sl.Err(err))
		} else if found {
			return cached, nil
		}
	}

	hasAccess, err := s.repo.CheckAccess(ctx, userUID, productType)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(cacheKey(userUID, productType), hasAccess, cacheTTL); err != nil {
			s.log.Warn("access cache write failed", sl.Err(err))
		}
	}
	return hasAccess, nil
}

// CheckByEmail проверяет доступ по email. Используется фронтендом
// до того, как у клиента появляется сессия.
func (s *Service) CheckByEmail(ctx context.Context, email, productType string) (bool, string, error) {
	const op = "access.CheckByEmail"

	hasAccess, userUID, err := s.repo.CheckAccessByEmail(ctx, email, productType)
	if err != nil {
		return false, "", fmt.Errorf("%s: %w", op, err)
	}
	return hasAccess, userUID, nil
}

// List возвращает все права доступа пользователя.
func (s *Service) List(ctx context.Context, userUID string) ([]*models.AccessGrant, error) {
	const op = "access.List"

	grants, err := s.repo.ListAccessByUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return grants, nil
}

// Grant выдаёт пользователю доступ к продукту вручную, без оплаты.
// Администраторская операция: проходит тем же путём, что и платёж,
// с синтетическим ключом идемпотентности.
func (s *Service) Grant(ctx context.Context, email, productType, grantedBy string) error {
	const op = "access.Grant"

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	product, err := s.repo.GetProductByType(ctx, productType)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	event := models.PaymentEvent{
		PaymentIntentID: fmt.Sprintf("manual_%s_%s", user.UID, productType),
		ProductType:     productType,
		UserUID:         user.UID,
		UserEmail:       user.Email,
		AmountCents:     0,
		Currency:        "usd",
		Paid:            true,
	}
	if _, err := s.repo.ReconcilePayment(ctx, event, product.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.InvalidateAccess(user.UID, productType)
	s.log.Info("access granted manually",
		slog.String("op", op),
		slog.String("user_uid", user.UID),
		slog.String("product_type", productType),
		slog.String("granted_by", grantedBy))
	return nil
}

// Revoke отзывает доступ пользователя к продукту.
// productType "all" отзывает все продукты разом.
// Возвращает количество снятых прав.
func (s *Service) Revoke(ctx context.Context, email, productType string) (int, error) {
	const op = "access.Revoke"

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	revoked, err := s.repo.RevokeAccess(ctx, user.UID, productType)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if productType == "all" {
		grants, err := s.repo.ListAccessByUser(ctx, user.UID)
		if err == nil {
			for _, g := range grants {
				s.InvalidateAccess(user.UID, g.ProductType)
			}
		}
	} else {
		s.InvalidateAccess(user.UID, productType)
	}
	return revoked, nil
}

// InvalidateAccess сбрасывает кешированный результат проверки доступа.
func (s *Service) InvalidateAccess(userUID, productType string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(cacheKey(userUID, productType)); err != nil {
		s.log.Warn("access cache invalidation failed", sl.Err(err))
	}
}
