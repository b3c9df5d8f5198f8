// Package grant реализует административный HTTP-обработчик выдачи доступа.
//
// Доступ выдаётся без оплаты и проходит тем же путём, что и платёж,
// с синтетическим ключом идемпотентности.
package grant

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/barakahtool/barakah-backend/internal/http/middlewarectx"
	"github.com/barakahtool/barakah-backend/internal/http/response"
	"github.com/barakahtool/barakah-backend/internal/lib/sl"
	"github.com/barakahtool/barakah-backend/internal/models"
)

// Handler обрабатывает запросы на выдачу доступа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики выдачи доступа.
type Service interface {
	Grant(ctx context.Context, email, productType, grantedBy string) error
}

// Request — тело запроса на выдачу доступа.
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
// @Summary Выдать доступ вручную
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Email и ключ продукта"
// @Success 200 {object} response.Response "Доступ выдан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 404 {object} response.ErrorResponse "Пользователь или продукт не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/grant-access [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.grant"

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

	grantedBy, _ := r.Context().Value(middlewarectx.Email).(string)

	if err := h.service.Grant(r.Context(), req.Email, req.ProductType, grantedBy); err != nil {
		switch {
		case errors.Is(err, models.ErrUserNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.ErrorCode(response.CodeUserNotFound, "user not found"))
		case errors.Is(err, models.ErrProductNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.ErrorCode(response.CodeProductNotFound, "product not found"))
		default:
			log.Error("failed to grant access", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.ErrorCode(response.CodeInternal, "could not grant access"))
		}
		return
	}

	log.Info("access granted",
		slog.String("email", req.Email),
		slog.String("product_type", req.ProductType),
		slog.String("granted_by", grantedBy))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"granted": true,
	}))
}
