package read

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/barakahtool/barakah-backend/internal/http/response"
	"github.com/barakahtool/barakah-backend/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Get(ctx context.Context, productType string) (*models.Product, error) {
	args := m.Called(ctx, productType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		product    *models.Product
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name: "существующий продукт",
			url:  "/products/type/dua_generator",
			product: &models.Product{
				ID:          1,
				Name:        "Dua Generator",
				ProductType: "dua_generator",
				PriceCents:  499,
				IsActive:    true,
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "неизвестный продукт",
			url:        "/products/type/missing",
			serviceErr: models.ErrProductNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   response.CodeProductNotFound,
		},
		{
			name:       "сбой хранилища",
			url:        "/products/type/dua_generator",
			serviceErr: errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   response.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &ServiceMock{}
			service.On("Get", mock.Anything, mock.AnythingOfType("string")).
				Return(tt.product, tt.serviceErr)

			router := chi.NewRouter()
			router.Get("/products/type/{type}", New(newNoopLogger(), service).ServeHTTP)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp response.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, resp.ErrorCode)
				return
			}
			data := resp.Data.(map[string]any)
			product := data["product"].(map[string]any)
			assert.Equal(t, "dua_generator", product["product_type"])
			assert.Equal(t, float64(499), product["price_cents"])
		})
	}
}
