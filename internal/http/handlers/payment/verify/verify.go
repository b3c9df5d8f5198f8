// Package verify реализует HTTP-обработчик подтверждения оплаты клиентом.
//
// Handler принимает идентификатор checkout-сессии, запрашивает её
// состояние у провайдера и запускает реконсиляцию. Вызывается фронтендом
// после возврата со страницы оплаты и может гоняться с webhook за один
// и тот же платёж.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/barakahtool/barakah-backend/internal/http/response"
	"github.com/barakahtool/barakah-backend/internal/lib/sl"
	"github.com/barakahtool/barakah-backend/internal/models"
	"github.com/barakahtool/barakah-backend/internal/services/reconcile"
)

// Handler обрабатывает запросы на подтверждение оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики подтверждения оплаты.
type Service interface {
	VerifyBySession(ctx context.Context, sessionID string) (*reconcile.Result, error)
}

// Request — тело запроса на подтверждение оплаты.
type Request struct {
	SessionID string `json:"session_id" validate:"required"`
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтвердить оплату
// @Description Читает checkout-сессию у провайдера и фиксирует покупку.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body Request true "Идентификатор checkout-сессии"
// @Success 200 {object} response.Response "Результат реконсиляции"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 402 {object} response.ErrorResponse "Платеж не завершен"
// @Failure 404 {object} response.ErrorResponse "Продукт не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /stripe/verify-payment [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ErrorCode(response.CodeInvalidRequest, "invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.VerifyBySession(r.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrPaymentIncomplete):
			log.Error("payment not completed", slog.String("session_id", req.SessionID))
			w.WriteHeader(http.StatusPaymentRequired)
			render.JSON(w, r, response.ErrorCode(response.CodePaymentIncomplete, "payment not completed"))
		case errors.Is(err, models.ErrProductNotFound):
			log.Error("paid session references unknown product", slog.String("session_id", req.SessionID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.ErrorCode(response.CodeProductNotFound, "product not found"))
		default:
			log.Error("failed to verify payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.ErrorCode(response.CodeInternal, "could not verify payment"))
		}
		return
	}

	log.Info("payment verified", slog.String("payment_intent_id", result.PaymentIntentID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"success":           true,
		"product_type":      result.ProductType,
		"payment_intent_id": result.PaymentIntentID,
	}))
}
