// Package webhook реализует HTTP-обработчик событий платёжного провайдера.
//
// Handler проверяет подпись события, нормализует его и запускает ту же
// реконсиляцию, что и подтверждение оплаты клиентом. Ответные статусы
// подчинены контракту повторов провайдера: неверная подпись — 400 и
// повторов не будет, временный сбой — 500 и провайдер доставит событие
// ещё раз.
package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/barakahtool/barakah-backend/internal/http/response"
	"github.com/barakahtool/barakah-backend/internal/lib/sl"
	"github.com/barakahtool/barakah-backend/internal/models"
	"github.com/barakahtool/barakah-backend/internal/services/reconcile"
)

// Предел размера тела события. Webhook принимает произвольное тело
// до проверки подписи, поэтому размер ограничен заранее.
const maxBodyBytes = int64(65536)

// Handler обрабатывает события платёжного провайдера.
type Handler struct {
	log      *slog.Logger
	verifier Verifier
	service  Service
}

// Verifier проверяет подпись события и нормализует его.
type Verifier interface {
	VerifyEvent(payload []byte, sigHeader string) (*models.PaymentEvent, bool, error)
}

// Service описывает интерфейс бизнес-логики реконсиляции.
type Service interface {
	Reconcile(ctx context.Context, event models.PaymentEvent) (*reconcile.Result, error)
}

// New создает новый Handler с переданными логгером, верификатором и сервисом.
func New(log *slog.Logger, verifier Verifier, service Service) *Handler {
	return &Handler{
		log:      log,
		verifier: verifier,
		service:  service,
	}
}

// ServeHTTP godoc
// @Summary Webhook платёжного провайдера
// @Description Принимает подписанные события Stripe и фиксирует покупки.
// @Tags Payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Подпись события"
// @Success 200 {object} response.Response "Событие обработано или неприменимо"
// @Failure 400 {object} response.ErrorResponse "Неверная подпись, повторов не будет"
// @Failure 500 {object} response.ErrorResponse "Временный сбой, провайдер повторит доставку"
// @Router /stripe/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read event body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ErrorCode(response.CodeInvalidRequest, "failed to read event body"))
		return
	}

	event, relevant, err := h.verifier.VerifyEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		log.Error("event signature verification failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ErrorCode(response.CodeSignatureInvalid, "invalid event signature"))
		return
	}
	if !relevant {
		render.JSON(w, r, response.StatusOKWithData(map[string]any{"received": true}))
		return
	}

	if _, err := h.service.Reconcile(r.Context(), *event); err != nil {
		// Незавершённый платеж не ошибка доставки: повтор события его не изменит.
		if errors.Is(err, models.ErrPaymentIncomplete) {
			log.Info("event with incomplete payment ignored",
				slog.String("payment_intent_id", event.PaymentIntentID))
			render.JSON(w, r, response.StatusOKWithData(map[string]any{"received": true}))
			return
		}
		log.Error("failed to reconcile webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.ErrorCode(response.CodeInternal, "could not process event"))
		return
	}

	log.Info("webhook event reconciled", slog.String("payment_intent_id", event.PaymentIntentID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"received": true}))
}
