package models

import "errors"

// Ошибки доменного уровня. Обработчики сопоставляют их через errors.Is
// со стабильными кодами ошибок в JSON-ответе.
var (
	// ErrProductNotFound — неизвестный или неактивный product_type.
	ErrProductNotFound = errors.New("product not found")

	// ErrUserNotFound — пользователь отсутствует в базе.
	ErrUserNotFound = errors.New("user not found")

	// ErrPaymentIncomplete — внешний платёж не в статусе paid.
	// Ошибка исправима пользователем: нужно завершить оплату.
	ErrPaymentIncomplete = errors.New("payment not completed")

	// ErrPriceNotConfigured — у продукта нет внешнего прайс-идентификатора.
	// Ошибка исправима оператором, подставлять цену по умолчанию запрещено.
	ErrPriceNotConfigured = errors.New("product pricing not configured")

	// ErrSessionInvalid — сессионный токен неизвестен или истёк.
	// Два случая намеренно неразличимы для вызывающей стороны.
	ErrSessionInvalid = errors.New("invalid or expired session")

	// ErrInvalidCredentials — неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccessDenied — у пользователя нет права на операцию.
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyExists — нарушение уникальности на неидемпотентном пути,
	// например повторная регистрация занятого email.
	ErrAlreadyExists = errors.New("already exists")
)
