// Package checkemail реализует HTTP-обработчик проверки доступа по email.
//
// Используется фронтендом до того, как у клиента появляется сессия.
package checkemail

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/barakahtool/barakah-backend/internal/http/response"
	"github.com/barakahtool/barakah-backend/internal/lib/sl"
)

// Handler обрабатывает запросы проверки доступа по email.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики проверки доступа по email.
type Service interface {
	CheckByEmail(ctx context.Context, email, productType string) (bool, string, error)
}

// Request — тело запроса проверки доступа.
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
// @Summary Проверить доступ по email
// @Tags Access
// @Accept json
// @Produce json
// @Param request body Request true "Email и ключ продукта"
// @Success 200 {object} response.Response "has_access и user_uid"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /access/check [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.checkemail"

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

	hasAccess, userUID, err := h.service.CheckByEmail(r.Context(), strings.ToLower(req.Email), req.ProductType)
	if err != nil {
		log.Error("failed to check access by email", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.ErrorCode(response.CodeInternal, "could not check access"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"has_access": hasAccess,
		"user_uid":   userUID,
	}))
}
