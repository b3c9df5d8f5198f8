package create

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
	"github.com/barakahtool/barakah-backend/internal/paymentprovider"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, productType, email, name string) (*paymentprovider.CheckoutSession, error) {
	args := m.Called(ctx, productType, email, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.CheckoutSession), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler_ServeHTTP(t *testing.T) {
	validBody := `{"product_type": "dua_generator", "user_email": "a@example.com", "user_name": "Aisha"}`

	tests := []struct {
		name       string
		body       string
		session    *paymentprovider.CheckoutSession
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "успешное создание сессии",
			body:       validBody,
			session:    &paymentprovider.CheckoutSession{ID: "cs_1", URL: "https://pay.example/cs_1"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "неизвестный продукт",
			body:       validBody,
			serviceErr: models.ErrProductNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   response.CodeProductNotFound,
		},
		{
			name:       "цена не настроена",
			body:       validBody,
			serviceErr: models.ErrPriceNotConfigured,
			wantStatus: http.StatusInternalServerError,
			wantCode:   response.CodePriceNotConfigured,
		},
		{
			name:       "сбой провайдера",
			body:       validBody,
			serviceErr: errors.New("stripe unavailable"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   response.CodeInternal,
		},
		{
			name:       "некорректный email",
			body:       `{"product_type": "dua_generator", "user_email": "not-an-email", "user_name": "Aisha"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   response.CodeInvalidRequest,
		},
		{
			name:       "пустой product_type",
			body:       `{"product_type": "", "user_email": "a@example.com", "user_name": "Aisha"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   response.CodeInvalidRequest,
		},
		{
			name:       "битый JSON",
			body:       `{"product_type"`,
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &ServiceMock{}
			if tt.session != nil || tt.serviceErr != nil {
				service.On("Create", mock.Anything, "dua_generator", "a@example.com", "Aisha").
					Return(tt.session, tt.serviceErr)
			}

			handler := New(newNoopLogger(), service)

			req := httptest.NewRequest(http.MethodPost, "/stripe/create-checkout-session",
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
			assert.Equal(t, "cs_1", data["session_id"])
			assert.Equal(t, "https://pay.example/cs_1", data["url"])
		})
	}
}
