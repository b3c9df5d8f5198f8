package models

// Product описывает продукт каталога. Каталог неизменяем во время
// работы приложения и читается из базы данных.
type Product struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	PriceCents    int64   `json:"price_cents"`  // Цена в минорных единицах валюты
	ProductType   string  `json:"product_type"` // Ключ продукта, например "dua_generator"
	StripePriceID *string `json:"stripe_price_id,omitempty"`
	IsActive      bool    `json:"is_active"`
}
