// Package checkout создаёт платёжные сессии у провайдера.
//
// Покупка возможна без предварительной регистрации: пользователь
// заводится (или находится) по email в момент начала оплаты.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/barakahtool/barakah-backend/internal/models"
	"github.com/barakahtool/barakah-backend/internal/paymentprovider"
)

type Repository interface {
	UpsertUser(ctx context.Context, uid, email, name string) (*models.User, error)
	GetProductByType(ctx context.Context, productType string) (*models.Product, error)
}

type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, args paymentprovider.CheckoutArgs) (*paymentprovider.CheckoutSession, error)
}

type Service struct {
	repo        Repository
	provider    SessionCreator
	frontendURL string
	log         *slog.Logger
}

func New(repo Repository, provider SessionCreator, frontendURL string, log *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		provider:    provider,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log,
	}
}

// Create заводит пользователя по email и открывает checkout-сессию
// на один выбранный продукт. Возвращает URL страницы оплаты.
func (s *Service) Create(ctx context.Context, productType, email, name string) (*paymentprovider.CheckoutSession, error) {
	const op = "checkout.Create"

	email = strings.ToLower(strings.TrimSpace(email))

	product, err := s.repo.GetProductByType(ctx, productType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if product.StripePriceID == nil || *product.StripePriceID == "" {
		return nil, fmt.Errorf("%s: %w", op, models.ErrPriceNotConfigured)
	}

	user, err := s.repo.UpsertUser(ctx, uuid.NewString(), email, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	session, err := s.provider.CreateCheckoutSession(ctx, paymentprovider.CheckoutArgs{
		PriceID:     *product.StripePriceID,
		ProductType: product.ProductType,
		UserUID:     user.UID,
		UserEmail:   user.Email,
		UserName:    user.Name,
		SuccessURL:  s.frontendURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.frontendURL + "/payment-cancelled",
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("checkout session created",
		slog.String("op", op),
		slog.String("user_uid", user.UID),
		slog.String("product_type", product.ProductType),
		slog.String("session_id", session.ID))

	return session, nil
}
