// Package me реализует HTTP-обработчик профиля текущего пользователя.
//
// Handler читает uid из контекста (положен JWT middleware) и возвращает
// пользователя вместе со списком купленных продуктов.
package me

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/barakahtool/barakah-backend/internal/http/middlewarectx"
	"github.com/barakahtool/barakah-backend/internal/http/response"
	"github.com/barakahtool/barakah-backend/internal/lib/sl"
	"github.com/barakahtool/barakah-backend/internal/models"
)

// Handler обрабатывает запросы профиля.
type Handler struct {
	log     *slog.Logger
	service Service
	access  AccessService
}

// Service описывает интерфейс бизнес-логики чтения профиля.
type Service interface {
	Profile(ctx context.Context, userUID string) (*models.User, error)
}

// AccessService возвращает права доступа пользователя.
type AccessService interface {
	List(ctx context.Context, userUID string) ([]*models.AccessGrant, error)
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, service Service, access AccessService) *Handler {
	return &Handler{
		log:     log,
		service: service,
		access:  access,
	}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает пользователя и его купленные продукты.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Пользователь и покупки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	user, err := h.service.Profile(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.ErrorCode(response.CodeUserNotFound, "user not found"))
			return
		}
		log.Error("failed to read profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.ErrorCode(response.CodeInternal, "could not read profile"))
		return
	}

	grants, err := h.access.List(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list access grants", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.ErrorCode(response.CodeInternal, "could not read purchases"))
		return
	}

	purchased := make([]string, 0, len(grants))
	for _, g := range grants {
		if g.HasAccess {
			purchased = append(purchased, g.ProductType)
		}
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user":               user,
		"purchased_features": purchased,
	}))
}
