package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/barakahtool/barakah-backend/internal/models"
	"github.com/barakahtool/barakah-backend/internal/storage/repository"
)

// Хранилище должно удовлетворять интерфейсу сервиса.
var _ Repository = (*repository.Storage)(nil)

type RepositoryMock struct {
	mock.Mock
}

func (m *RepositoryMock) ListProducts(ctx context.Context) ([]*models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *RepositoryMock) GetProductByType(ctx context.Context, productType string) (*models.Product, error) {
	args := m.Called(ctx, productType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_List(t *testing.T) {
	t.Run("возвращает активные продукты", func(t *testing.T) {
		repo := &RepositoryMock{}
		svc := New(repo, newNoopLogger())

		repo.On("ListProducts", mock.Anything).Return([]*models.Product{
			{ID: 1, Name: "Dua Generator", ProductType: "dua_generator", PriceCents: 499},
			{ID: 2, Name: "Story Generator", ProductType: "story_generator", PriceCents: 499},
		}, nil)

		products, err := svc.List(context.Background())
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "dua_generator", products[0].ProductType)
	})

	t.Run("ошибка хранилища прокидывается наружу", func(t *testing.T) {
		repo := &RepositoryMock{}
		svc := New(repo, newNoopLogger())

		repo.On("ListProducts", mock.Anything).Return(nil, errors.New("db down"))

		_, err := svc.List(context.Background())
		require.Error(t, err)
	})
}

func TestService_Get(t *testing.T) {
	repo := &RepositoryMock{}
	svc := New(repo, newNoopLogger())

	repo.On("GetProductByType", mock.Anything, "dua_generator").
		Return(&models.Product{ID: 1, ProductType: "dua_generator"}, nil)
	repo.On("GetProductByType", mock.Anything, "missing").
		Return(nil, models.ErrProductNotFound)

	product, err := svc.Get(context.Background(), "dua_generator")
	require.NoError(t, err)
	assert.Equal(t, "dua_generator", product.ProductType)

	_, err = svc.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, models.ErrProductNotFound))
}
