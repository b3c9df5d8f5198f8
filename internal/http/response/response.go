// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле ErrorCode — стабильный машинный код ошибки (опционально).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status    string `json:"status" example:"Error"`
	Error     string `json:"error" example:"invalid request body"`
	ErrorCode string `json:"error_code,omitempty" example:"product_not_found"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Стабильные коды ошибок API. Клиенты ветвятся по коду, текст ошибки
// предназначен для человека и может меняться.
const (
	CodeProductNotFound    = "product_not_found"
	CodeUserNotFound       = "user_not_found"
	CodePaymentIncomplete  = "payment_incomplete"
	CodePriceNotConfigured = "price_not_configured"
	CodeSessionInvalid     = "session_invalid"
	CodeInvalidCredentials = "invalid_credentials"
	CodeAccessDenied       = "access_denied"
	CodeAlreadyExists      = "already_exists"
	CodeInvalidRequest     = "invalid_request"
	CodeInternal           = "internal_error"
	CodeSignatureInvalid   = "signature_invalid"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ErrorCode возвращает Response с ошибкой, сообщением и машинным кодом.
func ErrorCode(code, msg string) ErrorResponse {
	return ErrorResponse{
		Status:    StatusError,
		Error:     msg,
		ErrorCode: code,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too short", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status:    StatusError,
		Error:     strings.Join(errsMsgs, ", "),
		ErrorCode: CodeInvalidRequest,
	}
}
