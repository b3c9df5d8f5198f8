// Package reconcile содержит ядро платёжного потока: превращение
// события "оплачено" от платёжного провайдера в долговременное
// состояние — запись покупки и право доступа.
//
// Обе точки входа (verify-payment и webhook) сходятся в Reconcile.
// Доставка событий провайдером — at-least-once, поэтому операция
// идемпотентна по внешнему ключу платежа.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/barakahtool/barakah-backend/internal/lib/sl"
	"github.com/barakahtool/barakah-backend/internal/models"
)

// Repository описывает операции хранилища, нужные реконсиляции.
type Repository interface {
	// GetProductByType возвращает активный продукт по ключу.
	GetProductByType(ctx context.Context, productType string) (*models.Product, error)
	// ReconcilePayment атомарно фиксирует покупку и право доступа.
	ReconcilePayment(ctx context.Context, event models.PaymentEvent, productID int) (int, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// SessionRetriever читает checkout-сессию у провайдера.
type SessionRetriever interface {
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (*models.PaymentEvent, error)
}

// Publisher отправляет уведомление о завершённой покупке.
// Публикация best-effort: её отказ не откатывает реконсиляцию.
type Publisher interface {
	PublishPurchaseCompleted(notification models.PurchaseNotification) error
}

// AccessInvalidator сбрасывает кешированные результаты проверки доступа.
type AccessInvalidator interface {
	InvalidateAccess(userUID, productType string)
}

// Result — ответ успешной реконсиляции. Содержит только данные,
// относящиеся к самому платежу, без внутренних идентификаторов.
type Result struct {
	ProductType     string `json:"product_type"`
	PaymentIntentID string `json:"payment_intent_id"`
	UserEmail       string `json:"user_email"`
}

// Service реализует реконсиляцию платежей.
type Service struct {
	repo        Repository
	provider    SessionRetriever
	publisher   Publisher
	invalidator AccessInvalidator
	log         *slog.Logger
}

// New создаёт сервис реконсиляции. publisher и invalidator необязательны.
func New(repo Repository, provider SessionRetriever, publisher Publisher,
	invalidator AccessInvalidator, log *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		provider:    provider,
		publisher:   publisher,
		invalidator: invalidator,
		log:         log,
	}
}

// VerifyBySession читает сессию у провайдера и запускает реконсиляцию.
// Вызывается клиентом после редиректа со страницы оплаты.
func (s *Service) VerifyBySession(ctx context.Context, sessionID string) (*Result, error) {
	const op = "reconcile.VerifyBySession"

	event, err := s.provider.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.Reconcile(ctx, *event)
}

// Reconcile превращает платёжное событие в запись покупки и право доступа.
//
// Неоплаченное событие не пишет ничего и возвращает ErrPaymentIncomplete.
// Неизвестный product_type при уже состоявшемся внешнем платеже —
// операционная тревога: деньги получены, доступ выдать не на что.
// Повторная доставка того же платежа схлопывается в no-op.
func (s *Service) Reconcile(ctx context.Context, event models.PaymentEvent) (*Result, error) {
	const op = "reconcile.Reconcile"
	log := s.log.With(
		slog.String("op", op),
		slog.String("payment_intent_id", event.PaymentIntentID),
		slog.String("product_type", event.ProductType),
	)

	if !event.Paid {
		return nil, fmt.Errorf("%s: %w", op, models.ErrPaymentIncomplete)
	}

	product, err := s.repo.GetProductByType(ctx, event.ProductType)
	if err != nil {
		// Платёж прошёл у провайдера, а продукт в каталоге не найден.
		log.Error("paid event references unknown product, manual intervention required", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.repo.ReconcilePayment(ctx, event, product.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateAccess(event.UserUID, event.ProductType)
	}

	log.Info("payment reconciled",
		slog.String("user_uid", event.UserUID),
		slog.Int64("amount_cents", event.AmountCents))

	s.notify(ctx, event, product)

	return &Result{
		ProductType:     event.ProductType,
		PaymentIntentID: event.PaymentIntentID,
		UserEmail:       event.UserEmail,
	}, nil
}

func (s *Service) notify(ctx context.Context, event models.PaymentEvent, product *models.Product) {
	if s.publisher == nil {
		return
	}
	name := ""
	if user, err := s.repo.GetUser(ctx, event.UserUID); err == nil {
		name = user.Name
	}
	notification := models.PurchaseNotification{
		Email:           event.UserEmail,
		Name:            name,
		ProductType:     event.ProductType,
		ProductName:     product.Name,
		AmountPaidCents: event.AmountCents,
		Currency:        event.Currency,
		PaymentIntentID: event.PaymentIntentID,
	}
	if err := s.publisher.PublishPurchaseCompleted(notification); err != nil {
		s.log.Warn("failed to publish purchase notification", sl.Err(err))
	}
}
