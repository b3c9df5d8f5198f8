// Package list реализует HTTP-обработчик списка прав доступа пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/barakahtool/barakah-backend/internal/http/response"
	"github.com/barakahtool/barakah-backend/internal/lib/sl"
	"github.com/barakahtool/barakah-backend/internal/models"
)

// Handler обрабатывает запросы списка прав доступа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения прав доступа.
type Service interface {
	List(ctx context.Context, userUID string) ([]*models.AccessGrant, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Все права доступа пользователя
// @Tags Access
// @Produce json
// @Param user_uid path string true "UID пользователя"
// @Success 200 {object} response.Response "Список прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /access/{user_uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "user_uid")
	if userUID == "" {
		log.Error("missing user_uid in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ErrorCode(response.CodeInvalidRequest, "missing user_uid"))
		return
	}

	grants, err := h.service.List(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list access grants", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.ErrorCode(response.CodeInternal, "could not list access"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"access": grants,
	}))
}
