// Package remove реализует HTTP-обработчик завершения сессии.
//
// Выход идемпотентен: удаление несуществующего токена тоже успех.
package remove

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

// Handler обрабатывает запросы на завершение сессии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления сессии.
type Service interface {
	DeleteSession(ctx context.Context, sessionToken string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Завершить сессию
// @Tags Sessions
// @Produce json
// @Param token path string true "Сессионный токен"
// @Success 200 {object} response.Response "Сессия завершена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions/{token} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := chi.URLParam(r, "token")
	if token == "" {
		log.Error("missing token in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ErrorCode(response.CodeInvalidRequest, "missing token"))
		return
	}

	if err := h.service.DeleteSession(r.Context(), token); err != nil {
		log.Error("failed to delete session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.ErrorCode(response.CodeInternal, "could not delete session"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted": true,
	}))
}
