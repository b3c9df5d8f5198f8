// Package create реализует HTTP-обработчик создания checkout-сессии.
//
// Handler принимает JSON-запрос с ключом продукта и данными покупателя,
// валидирует их и возвращает идентификатор и URL платёжной сессии.
package create

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
	"github.com/barakahtool/barakah-backend/internal/paymentprovider"
)

// Handler обрабатывает запросы на создание checkout-сессии.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания сессии оплаты.
type Service interface {
	Create(ctx context.Context, productType, email, name string) (*paymentprovider.CheckoutSession, error)
}

// Request — тело запроса на создание checkout-сессии.
type Request struct {
	ProductType string `json:"product_type" validate:"required"`
	UserEmail   string `json:"user_email" validate:"required,email"`
	UserName    string `json:"user_name" validate:"required"`
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
// @Summary Создать checkout-сессию
// @Description Создает платежную сессию у провайдера для одного продукта.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body Request true "Продукт и данные покупателя"
// @Success 200 {object} response.Response "session_id и url"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Продукт не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Цена не настроена или ошибка сервера"
// @Router /stripe/create-checkout-session [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.create"

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

	session, err := h.service.Create(r.Context(), req.ProductType, req.UserEmail, req.UserName)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrProductNotFound):
			log.Error("product not found", slog.String("product_type", req.ProductType))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.ErrorCode(response.CodeProductNotFound, "product not found"))
		case errors.Is(err, models.ErrPriceNotConfigured):
			// Исправимо только оператором, подставлять цену нельзя.
			log.Error("product pricing not configured", slog.String("product_type", req.ProductType))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.ErrorCode(response.CodePriceNotConfigured, "product pricing not configured"))
		default:
			log.Error("failed to create checkout session", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.ErrorCode(response.CodeInternal, "could not create checkout session"))
		}
		return
	}

	log.Info("checkout session created", slog.String("session_id", session.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"session_id": session.ID,
		"url":        session.URL,
	}))
}
