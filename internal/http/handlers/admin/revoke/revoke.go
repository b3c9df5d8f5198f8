// Package revoke реализует административный HTTP-обработчик отзыва доступа.
package revoke

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
)

// Handler обрабатывает запросы на отзыв доступа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики отзыва доступа.
type Service interface {
	Revoke(ctx context.Context, email, productType string) (int, error)
}

// Request — тело запроса на отзыв доступа.
// ProductType "all" отзывает все продукты пользователя.
type Request struct {
	Email       string `json:"email" validate:"required,email"`
	ProductType string `json:"product_type" validate:"required"`
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
// @Summary Отозвать доступ
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Email и ключ продукта, либо all"
// @Success 200 {object} response.Response "Количество отозванных прав"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/revoke-access [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.revoke"

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

	revoked, err := h.service.Revoke(r.Context(), req.Email, req.ProductType)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.ErrorCode(response.CodeUserNotFound, "user not found"))
			return
		}
		log.Error("failed to revoke access", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.ErrorCode(response.CodeInternal, "could not revoke access"))
		return
	}

	log.Info("access revoked",
		slog.String("email", req.Email),
		slog.String("product_type", req.ProductType),
		slog.Int("revoked", revoked))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"revoked": revoked,
	}))
}
