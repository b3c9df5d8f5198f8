package access

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/barakahtool/barakah-backend/internal/models"
)

type RepositoryMock struct {
	mock.Mock
}

func (m *RepositoryMock) CheckAccess(ctx context.Context, userUID, productType string) (bool, error) {
	args := m.Called(ctx, userUID, productType)
	return args.Bool(0), args.Error(1)
}

func (m *RepositoryMock) CheckAccessByEmail(ctx context.Context, email, productType string) (bool, string, error) {
	args := m.Called(ctx, email, productType)
	return args.Bool(0), args.String(1), args.Error(2)
}

func (m *RepositoryMock) ListAccessByUser(ctx context.Context, userUID string) ([]*models.AccessGrant, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AccessGrant), args.Error(1)
}

func (m *RepositoryMock) ReconcilePayment(ctx context.Context, event models.PaymentEvent, productID int) (int, error) {
	args := m.Called(ctx, event, productID)
	return args.Int(0), args.Error(1)
}

func (m *RepositoryMock) RevokeAccess(ctx context.Context, userUID, productType string) (int, error) {
	args := m.Called(ctx, userUID, productType)
	return args.Int(0), args.Error(1)
}

func (m *RepositoryMock) GetProductByType(ctx context.Context, productType string) (*models.Product, error) {
	args := m.Called(ctx, productType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *RepositoryMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	if args.Bool(0) {
		*(result.(*bool)) = true
	}
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_Check(t *testing.T) {
	t.Run("промах кеша идёт в базу и пишет кеш", func(t *testing.T) {
		repo := &RepositoryMock{}
		cache := &CacheMock{}
		svc := New(repo, cache, newNoopLogger())

		cache.On("Get", "access:uid-1:dua_generator", mock.Anything).Return(false, nil)
		repo.On("CheckAccess", mock.Anything, "uid-1", "dua_generator").Return(true, nil)
		cache.On("Set", "access:uid-1:dua_generator", true, cacheTTL).Return(nil)

		hasAccess, err := svc.Check(context.Background(), "uid-1", "dua_generator")
		require.NoError(t, err)
		assert.True(t, hasAccess)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("попадание в кеш не трогает базу", func(t *testing.T) {
		repo := &RepositoryMock{}
		cache := &CacheMock{}
		svc := New(repo, cache, newNoopLogger())

		cache.On("Get", "access:uid-1:dua_generator", mock.Anything).Return(true, nil)

		hasAccess, err := svc.Check(context.Background(), "uid-1", "dua_generator")
		require.NoError(t, err)
		assert.True(t, hasAccess)
		repo.AssertNotCalled(t, "CheckAccess", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("отказ кеша не валит проверку", func(t *testing.T) {
		repo := &RepositoryMock{}
		cache := &CacheMock{}
		svc := New(repo, cache, newNoopLogger())

		cache.On("Get", mock.Anything, mock.Anything).Return(false, errors.New("redis down"))
		repo.On("CheckAccess", mock.Anything, "uid-1", "dua_generator").Return(false, nil)
		cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

		hasAccess, err := svc.Check(context.Background(), "uid-1", "dua_generator")
		require.NoError(t, err)
		assert.False(t, hasAccess)
	})

	t.Run("без кеша проверка работает напрямую", func(t *testing.T) {
		repo := &RepositoryMock{}
		svc := New(repo, nil, newNoopLogger())

		repo.On("CheckAccess", mock.Anything, "uid-1", "dua_generator").Return(true, nil)

		hasAccess, err := svc.Check(context.Background(), "uid-1", "dua_generator")
		require.NoError(t, err)
		assert.True(t, hasAccess)
	})
}

func TestService_Grant(t *testing.T) {
	t.Run("ручная выдача идёт через реконсиляцию", func(t *testing.T) {
		repo := &RepositoryMock{}
		svc := New(repo, nil, newNoopLogger())

		repo.On("GetUserByEmail", mock.Anything, "a@example.com").
			Return(&models.User{UID: "uid-1", Email: "a@example.com"}, nil)
		repo.On("GetProductByType", mock.Anything, "dua_generator").
			Return(&models.Product{ID: 3, ProductType: "dua_generator"}, nil)
		repo.On("ReconcilePayment", mock.Anything, models.PaymentEvent{
			PaymentIntentID: "manual_uid-1_dua_generator",
			ProductType:     "dua_generator",
			UserUID:         "uid-1",
			UserEmail:       "a@example.com",
			AmountCents:     0,
			Currency:        "usd",
			Paid:            true,
		}, 3).Return(1, nil)

		err := svc.Grant(context.Background(), "a@example.com", "dua_generator", "admin@example.com")
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("неизвестный email", func(t *testing.T) {
		repo := &RepositoryMock{}
		svc := New(repo, nil, newNoopLogger())

		repo.On("GetUserByEmail", mock.Anything, "missing@example.com").
			Return(nil, models.ErrUserNotFound)

		err := svc.Grant(context.Background(), "missing@example.com", "dua_generator", "admin@example.com")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrUserNotFound))
		repo.AssertNotCalled(t, "ReconcilePayment", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_Revoke(t *testing.T) {
	t.Run("отзыв одного продукта инвалидирует его ключ", func(t *testing.T) {
		repo := &RepositoryMock{}
		cache := &CacheMock{}
		svc := New(repo, cache, newNoopLogger())

		repo.On("GetUserByEmail", mock.Anything, "a@example.com").
			Return(&models.User{UID: "uid-1", Email: "a@example.com"}, nil)
		repo.On("RevokeAccess", mock.Anything, "uid-1", "dua_generator").Return(1, nil)
		cache.On("Invalidate", "access:uid-1:dua_generator").Return(nil)

		revoked, err := svc.Revoke(context.Background(), "a@example.com", "dua_generator")
		require.NoError(t, err)
		assert.Equal(t, 1, revoked)
		cache.AssertExpectations(t)
	})

	t.Run("отзыв all инвалидирует все продукты пользователя", func(t *testing.T) {
		repo := &RepositoryMock{}
		cache := &CacheMock{}
		svc := New(repo, cache, newNoopLogger())

		repo.On("GetUserByEmail", mock.Anything, "a@example.com").
			Return(&models.User{UID: "uid-1", Email: "a@example.com"}, nil)
		repo.On("RevokeAccess", mock.Anything, "uid-1", "all").Return(2, nil)
		repo.On("ListAccessByUser", mock.Anything, "uid-1").Return([]*models.AccessGrant{
			{UserUID: "uid-1", ProductType: "dua_generator"},
			{UserUID: "uid-1", ProductType: "story_generator"},
		}, nil)
		cache.On("Invalidate", "access:uid-1:dua_generator").Return(nil)
		cache.On("Invalidate", "access:uid-1:story_generator").Return(nil)

		revoked, err := svc.Revoke(context.Background(), "a@example.com", "all")
		require.NoError(t, err)
		assert.Equal(t, 2, revoked)
		cache.AssertExpectations(t)
	})
}
