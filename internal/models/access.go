package models

import "time"

// AccessGrant — денормализованная проекция покупок: отвечает на вопрос
// "есть ли у пользователя доступ к продукту". Поддерживается синхронно
// с покупками в одной транзакции, ключ — пара (user_uid, product_type).
type AccessGrant struct {
	UserUID       string     `json:"user_uid"`
	Email         string     `json:"email"`
	ProductType   string     `json:"product_type"`
	HasAccess     bool       `json:"has_access"`
	PaymentStatus string     `json:"payment_status"`
	PurchasedAt   time.Time  `json:"purchased_at"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}
