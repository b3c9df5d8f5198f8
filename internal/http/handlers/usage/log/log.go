// Package log реализует HTTP-обработчик записи журнала использования.
//
// Запись делается из фронтенда при каждом использовании купленного
// продукта. Вызывающая сторона трактует результат как необязательный.
package log

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/barakahtool/barakah-backend/internal/http/response"
	"github.com/barakahtool/barakah-backend/internal/lib/sl"
	"github.com/barakahtool/barakah-backend/internal/models"
)

// Handler обрабатывает запросы записи журнала использования.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики журнала использования.
type Service interface {
	Log(ctx context.Context, entry models.UsageEntry) (int, error)
}

// Request — тело запроса записи использования.
type Request struct {
	UserUID     string         `json:"user_uid" validate:"required,uuid"`
	ProductType string         `json:"product_type" validate:"required"`
	Action      string         `json:"action" validate:"required"`
	Metadata    map[string]any `json:"metadata,omitempty"`
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
// @Summary Записать использование продукта
// @Tags Usage
// @Accept json
// @Produce json
// @Param request body Request true "Запись использования"
// @Success 200 {object} response.Response "ID записи"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /usage [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.usage.log"

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

	id, err := h.service.Log(r.Context(), models.UsageEntry{
		UserUID:     req.UserUID,
		ProductType: req.ProductType,
		Action:      req.Action,
		Metadata:    req.Metadata,
	})
	if err != nil {
		log.Error("failed to log usage", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.ErrorCode(response.CodeInternal, "could not log usage"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
