// Package read реализует HTTP-обработчик для получения продукта по его ключу.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/barakahtool/barakah-backend/internal/http/response"
	"github.com/barakahtool/barakah-backend/internal/lib/sl"
	"github.com/barakahtool/barakah-backend/internal/models"
)

// Handler обрабатывает запросы на получение продукта по product_type.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения продукта.
type Service interface {
	Get(ctx context.Context, productType string) (*models.Product, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Продукт по ключу
// @Description Возвращает активный продукт по его product_type.
// @Tags Products
// @Produce json
// @Param type path string true "Ключ продукта, например dua_generator"
// @Success 200 {object} response.Response "Продукт"
// @Failure 404 {object} response.ErrorResponse "Продукт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /products/type/{type} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	productType := chi.URLParam(r, "type")
	if productType == "" {
		log.Error("missing product type in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ErrorCode(response.CodeInvalidRequest, "missing product type"))
		return
	}

	product, err := h.service.Get(r.Context(), productType)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			log.Error("product not found", slog.String("product_type", productType))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.ErrorCode(response.CodeProductNotFound, "product not found"))
			return
		}
		log.Error("failed to read product", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.ErrorCode(response.CodeInternal, "could not read product"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"product": product,
	}))
}
