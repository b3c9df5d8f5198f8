package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/barakahtool/barakah-backend/internal/http/response"
	"github.com/barakahtool/barakah-backend/internal/models"
	"github.com/barakahtool/barakah-backend/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, email, password string) (*auth.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.AuthResult), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		result     *auth.AuthResult
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name: "успешный вход",
			body: `{"email": "a@example.com", "password": "secret-password"}`,
			result: &auth.AuthResult{
				User:  &models.User{UID: "uid-1", Email: "a@example.com", Role: "user"},
				Token: "jwt-token",
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "неверные учетные данные",
			body:       `{"email": "a@example.com", "password": "wrong"}`,
			serviceErr: models.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
			wantCode:   response.CodeInvalidCredentials,
		},
		{
			name:       "сбой сервиса",
			body:       `{"email": "a@example.com", "password": "secret-password"}`,
			serviceErr: errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   response.CodeInternal,
		},
		{
			name:       "некорректный email",
			body:       `{"email": "not-an-email", "password": "secret-password"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   response.CodeInvalidRequest,
		},
		{
			name:       "пустой пароль",
			body:       `{"email": "a@example.com", "password": ""}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   response.CodeInvalidRequest,
		},
		{
			name:       "битый JSON",
			body:       `{"email"`,
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &ServiceMock{}
			if tt.result != nil || tt.serviceErr != nil {
				service.On("Login", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string")).
					Return(tt.result, tt.serviceErr)
			}

			handler := New(newNoopLogger(), service)

			req := httptest.NewRequest(http.MethodPost, "/auth/login",
				bytes.NewReader([]byte(tt.body)))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "test-req-id"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp response.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, resp.ErrorCode)
				return
			}
			data := resp.Data.(map[string]any)
			assert.Equal(t, "jwt-token", data["token"])
			user := data["user"].(map[string]any)
			assert.Equal(t, "uid-1", user["uid"])
		})
	}
}
