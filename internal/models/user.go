// Package models содержит доменные структуры каталога, пользователей,
// покупок и прав доступа, а также вспомогательные типы для работы
// с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// Пользователь может быть создан явно (регистрация с паролем) или
// неявно при первой оплате — тогда PasswordHash пустой.
type User struct {
	UID              string     `json:"uid"`                 // Уникальный идентификатор пользователя
	Email            string     `json:"email"`               // Электронная почта (уникальная, хранится в нижнем регистре)
	Name             string     `json:"name"`                // Отображаемое имя
	PasswordHash     string     `json:"-"`                   // Хэш пароля, пустой для пользователей без пароля
	Role             string     `json:"role"`                // Роль пользователя, admin или user
	StripeCustomerID *string    `json:"stripe_customer_id,omitempty"` // Идентификатор клиента в Stripe
	CreatedAt        time.Time  `json:"created_at"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
}

// UserSummary — строка административного списка пользователей
// с агрегатами по купленным продуктам.
type UserSummary struct {
	UID            string     `json:"uid"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	PurchasedCount int        `json:"purchased_features_count"`
	LastPurchase   *time.Time `json:"last_purchase,omitempty"`
}
