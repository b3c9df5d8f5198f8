// Package check реализует HTTP-обработчик проверки доступа к продукту.
//
// Handler отвечает на вопрос "есть ли доступ": отсутствие покупки —
// это ответ false, а не ошибка.
package check

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/barakahtool/barakah-backend/internal/http/response"
	"github.com/barakahtool/barakah-backend/internal/lib/sl"
)

// Handler обрабатывает запросы проверки доступа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики проверки доступа.
type Service interface {
	Check(ctx context.Context, userUID, productType string) (bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверить доступ к продукту
// @Tags Access
// @Produce json
// @Param user_uid path string true "UID пользователя"
// @Param product_type path string true "Ключ продукта"
// @Success 200 {object} response.Response "has_access"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /access/{user_uid}/{product_type} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.check"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "user_uid")
	productType := chi.URLParam(r, "product_type")
	if userUID == "" || productType == "" {
		log.Error("missing url parameters")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ErrorCode(response.CodeInvalidRequest, "missing user_uid or product_type"))
		return
	}

	hasAccess, err := h.service.Check(r.Context(), userUID, productType)
	if err != nil {
		log.Error("failed to check access", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.ErrorCode(response.CodeInternal, "could not check access"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"has_access": hasAccess,
	}))
}
