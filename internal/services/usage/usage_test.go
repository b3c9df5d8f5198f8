package usage

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
)

type RepositoryMock struct {
	mock.Mock
}

func (m *RepositoryMock) LogUsage(ctx context.Context, entry models.UsageEntry) (int, error) {
	args := m.Called(ctx, entry)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_Log(t *testing.T) {
	entry := models.UsageEntry{
		UserUID:     "uid-1",
		ProductType: "dua_generator",
		Action:      "generate",
	}

	t.Run("запись добавляется без предварительных проверок", func(t *testing.T) {
		repo := &RepositoryMock{}
		svc := New(repo, newNoopLogger())

		repo.On("LogUsage", mock.Anything, entry).Return(42, nil)

		id, err := svc.Log(context.Background(), entry)
		require.NoError(t, err)
		assert.Equal(t, 42, id)
		repo.AssertExpectations(t)
	})

	t.Run("ошибка хранилища прокидывается наружу", func(t *testing.T) {
		repo := &RepositoryMock{}
		svc := New(repo, newNoopLogger())

		repo.On("LogUsage", mock.Anything, entry).Return(0, errors.New("db down"))

		_, err := svc.Log(context.Background(), entry)
		require.Error(t, err)
	})
}
