package models

import "time"

// Статусы платежа в таблице покупок.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Purchase представляет запись о покупке продукта пользователем.
//
// PaymentIntentID уникален — это ключ идемпотентности: повторная
// доставка одного и того же платёжного события не создаёт вторую запись.
type Purchase struct {
	ID              int        `json:"id"`
	UserUID         string     `json:"user_uid"`
	ProductID       int        `json:"product_id"`
	PaymentIntentID string     `json:"stripe_payment_intent_id"`
	SessionID       string     `json:"stripe_session_id"`
	AmountPaidCents int64      `json:"amount_paid_cents"`
	Currency        string     `json:"currency"`
	PaymentStatus   string     `json:"payment_status"`
	PurchasedAt     time.Time  `json:"purchased_at"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

// PaymentEvent — нормализованное событие платёжного провайдера,
// единый вход процедуры реконсиляции для webhook и verify-payment.
type PaymentEvent struct {
	PaymentIntentID string // Внешний идентификатор платежа (ключ идемпотентности)
	SessionID       string // Внешний идентификатор checkout-сессии
	ProductType     string
	UserUID         string
	UserEmail       string
	AmountCents     int64
	Currency        string
	Paid            bool // Платёж подтверждён провайдером
}

// PurchaseNotification — сообщение о завершённой покупке,
// публикуемое в очередь для отправки чека на почту.
type PurchaseNotification struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	ProductType     string `json:"product_type"`
	ProductName     string `json:"product_name"`
	AmountPaidCents int64  `json:"amount_paid_cents"`
	Currency        string `json:"currency"`
	PaymentIntentID string `json:"payment_intent_id"`
}
