package log

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
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Log(ctx context.Context, entry models.UsageEntry) (int, error) {
	args := m.Called(ctx, entry)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler_ServeHTTP(t *testing.T) {
	validBody := `{"user_uid": "3f2a4b1c-9d6e-4a7f-8b0c-1d2e3f4a5b6c", "product_type": "dua_generator", "action": "generate"}`

	tests := []struct {
		name       string
		body       string
		id         int
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "успешная запись",
			body:       validBody,
			id:         42,
			wantStatus: http.StatusOK,
		},
		{
			name:       "сбой хранилища",
			body:       validBody,
			serviceErr: errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   response.CodeInternal,
		},
		{
			name:       "user_uid не uuid",
			body:       `{"user_uid": "not-a-uuid", "product_type": "dua_generator", "action": "generate"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   response.CodeInvalidRequest,
		},
		{
			name:       "пустой action",
			body:       `{"user_uid": "3f2a4b1c-9d6e-4a7f-8b0c-1d2e3f4a5b6c", "product_type": "dua_generator", "action": ""}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   response.CodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &ServiceMock{}
			if tt.id != 0 || tt.serviceErr != nil {
				service.On("Log", mock.Anything, mock.AnythingOfType("models.UsageEntry")).
					Return(tt.id, tt.serviceErr)
			}

			handler := New(newNoopLogger(), service)

			req := httptest.NewRequest(http.MethodPost, "/usage", bytes.NewReader([]byte(tt.body)))
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
			assert.Equal(t, float64(42), data["id"])
		})
	}
}
