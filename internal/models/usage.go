package models

import "time"

// UsageEntry — запись журнала использования продукта.
// Журнал append-only, вызывающая сторона трактует запись как необязательную.
type UsageEntry struct {
	ID          int            `json:"id"`
	UserUID     string         `json:"user_uid"`
	ProductType string         `json:"product_type"`
	Action      string         `json:"action"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
