package verify

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
	"github.com/barakahtool/barakah-backend/internal/services/reconcile"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) VerifyBySession(ctx context.Context, sessionID string) (*reconcile.Result, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconcile.Result), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		result     *reconcile.Result
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name: "успешное подтверждение",
			body: `{"session_id": "cs_123"}`,
			result: &reconcile.Result{
				ProductType:     "dua_generator",
				PaymentIntentID: "pi_123",
				UserEmail:       "a@example.com",
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "незавершенный платеж",
			body:       `{"session_id": "cs_unpaid"}`,
			serviceErr: models.ErrPaymentIncomplete,
			wantStatus: http.StatusPaymentRequired,
			wantCode:   response.CodePaymentIncomplete,
		},
		{
			name:       "оплаченная сессия с неизвестным продуктом",
			body:       `{"session_id": "cs_orphan"}`,
			serviceErr: models.ErrProductNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   response.CodeProductNotFound,
		},
		{
			name:       "сбой провайдера",
			body:       `{"session_id": "cs_123"}`,
			serviceErr: errors.New("stripe unavailable"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   response.CodeInternal,
		},
		{
			name:       "пустой session_id",
			body:       `{"session_id": ""}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   response.CodeInvalidRequest,
		},
		{
			name:       "битый JSON",
			body:       `{"session_id"`,
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &ServiceMock{}
			if tt.result != nil || tt.serviceErr != nil {
				service.On("VerifyBySession", mock.Anything, mock.AnythingOfType("string")).
					Return(tt.result, tt.serviceErr)
			}

			handler := New(newNoopLogger(), service)

			req := httptest.NewRequest(http.MethodPost, "/stripe/verify-payment",
				bytes.NewReader([]byte(tt.body)))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "test-req-id"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp response.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

			if tt.wantCode != "" {
				assert.Equal(t, response.StatusError, resp.Status)
				assert.Equal(t, tt.wantCode, resp.ErrorCode)
				return
			}
			assert.Equal(t, response.StatusOK, resp.Status)
			data := resp.Data.(map[string]any)
			assert.Equal(t, true, data["success"])
			assert.Equal(t, "dua_generator", data["product_type"])
			assert.Equal(t, "pi_123", data["payment_intent_id"])
		})
	}
}
