package paymentprovider

import (
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/barakahtool/barakah-backend/internal/models"
)

// WebhookVerifier проверяет подпись webhook-событий Stripe.
// Подпись — единственный механизм аутентификации этого эндпоинта.
type WebhookVerifier struct {
	secret string
}

// NewWebhookVerifier создаёт верификатор с секретом подписи.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// VerifyEvent проверяет подпись тела запроса и возвращает нормализованное
// платёжное событие. Второй результат false означает, что событие валидно,
// но не относится к завершению оплаты и должно быть проигнорировано.
func (v *WebhookVerifier) VerifyEvent(payload []byte, sigHeader string) (*models.PaymentEvent, bool, error) {
	const op = "paymentprovider.VerifyEvent"

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, v.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	if event.Type != "checkout.session.completed" {
		return nil, false, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return eventFromSession(&sess), true, nil
}
