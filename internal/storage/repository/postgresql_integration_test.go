package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barakahtool/barakah-backend/internal/models"
)

func TestStorage_ReconcilePayment(t *testing.T) {
	userUID := uuid.New().String()

	tests := []struct {
		name       string
		event      models.PaymentEvent
		repeat     int
		wantAccess bool
	}{
		{
			name: "успешная реконсиляция открывает доступ",
			event: models.PaymentEvent{
				PaymentIntentID: "pi_1",
				SessionID:       "cs_1",
				ProductType:     "dua_generator",
				UserUID:         userUID,
				UserEmail:       "a@example.com",
				AmountCents:     499,
				Currency:        "usd",
				Paid:            true,
			},
			repeat:     1,
			wantAccess: true,
		},
		{
			name: "повторная реконсиляция того же платежа идемпотентна",
			event: models.PaymentEvent{
				PaymentIntentID: "pi_1",
				SessionID:       "cs_1",
				ProductType:     "dua_generator",
				UserUID:         userUID,
				UserEmail:       "a@example.com",
				AmountCents:     499,
				Currency:        "usd",
				Paid:            true,
			},
			repeat:     2,
			wantAccess: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			factory.CreateUser(t, userUID, "a@example.com", "Aisha", "", "user")
			productID := factory.CreateProduct(t, "Dua Generator", "dua_generator", 499, nil, true)

			var firstID int
			for i := 0; i < tt.repeat; i++ {
				id, err := storage.ReconcilePayment(context.Background(), tt.event, productID)
				require.NoError(t, err)
				if i == 0 {
					firstID = id
				} else {
					// Повтор возвращает ту же запись покупки.
					assert.Equal(t, firstID, id)
				}
			}

			verification := NewTestVerification(storage)
			verification.VerifyPurchaseCount(t, tt.event.PaymentIntentID, 1)
			verification.VerifyAccess(t, userUID, tt.event.ProductType, tt.wantAccess)

			hasAccess, err := storage.CheckAccess(context.Background(), userUID, tt.event.ProductType)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAccess, hasAccess)
		})
	}
}

func TestStorage_CheckAccess_DefaultFalse(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "b@example.com", "Bilal", "", "user")

	// Нет истории покупок: доступ отсутствует, но это не ошибка.
	hasAccess, err := storage.CheckAccess(context.Background(), userUID, "story_generator")
	require.NoError(t, err)
	assert.False(t, hasAccess)
}

func TestStorage_CheckAccessByEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "c@example.com", "Chadija", "", "user")
	productID := factory.CreateProduct(t, "Name Poster", "name_poster", 499, nil, true)

	_, err := storage.ReconcilePayment(context.Background(), models.PaymentEvent{
		PaymentIntentID: "pi_email",
		ProductType:     "name_poster",
		UserUID:         userUID,
		UserEmail:       "c@example.com",
		AmountCents:     499,
		Currency:        "usd",
		Paid:            true,
	}, productID)
	require.NoError(t, err)

	hasAccess, gotUID, err := storage.CheckAccessByEmail(context.Background(), "c@example.com", "name_poster")
	require.NoError(t, err)
	assert.True(t, hasAccess)
	assert.Equal(t, userUID, gotUID)

	hasAccess, gotUID, err = storage.CheckAccessByEmail(context.Background(), "unknown@example.com", "name_poster")
	require.NoError(t, err)
	assert.False(t, hasAccess)
	assert.Empty(t, gotUID)
}

func TestStorage_RevokeAccess(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "d@example.com", "Dawud", "", "user")
	duaID := factory.CreateProduct(t, "Dua Generator", "dua_generator", 499, nil, true)
	storyID := factory.CreateProduct(t, "Story Generator", "story_generator", 499, nil, true)

	for _, p := range []struct {
		intent      string
		productType string
		id          int
	}{
		{"pi_r1", "dua_generator", duaID},
		{"pi_r2", "story_generator", storyID},
	} {
		_, err := storage.ReconcilePayment(context.Background(), models.PaymentEvent{
			PaymentIntentID: p.intent,
			ProductType:     p.productType,
			UserUID:         userUID,
			UserEmail:       "d@example.com",
			AmountCents:     499,
			Currency:        "usd",
			Paid:            true,
		}, p.id)
		require.NoError(t, err)
	}

	revoked, err := storage.RevokeAccess(context.Background(), userUID, "dua_generator")
	require.NoError(t, err)
	assert.Equal(t, 1, revoked)

	verification := NewTestVerification(storage)
	verification.VerifyAccess(t, userUID, "dua_generator", false)
	verification.VerifyAccess(t, userUID, "story_generator", true)

	// "all" снимает оставшиеся права.
	revoked, err = storage.RevokeAccess(context.Background(), userUID, "all")
	require.NoError(t, err)
	assert.Equal(t, 2, revoked)
	verification.VerifyAccess(t, userUID, "story_generator", false)
}

func TestStorage_Sessions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "e@example.com", "Emir", "", "user")

	t.Run("действующая сессия возвращает пользователя", func(t *testing.T) {
		session, err := storage.CreateSession(context.Background(), "tok_valid", userUID, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "tok_valid", session.Token)

		user, err := storage.GetUserBySessionToken(context.Background(), "tok_valid")
		require.NoError(t, err)
		assert.Equal(t, userUID, user.UID)
	})

	t.Run("истекшая сессия неотличима от неизвестной", func(t *testing.T) {
		factory.CreateSession(t, "tok_expired", userUID, time.Now().Add(-time.Minute))

		_, err := storage.GetUserBySessionToken(context.Background(), "tok_expired")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrSessionInvalid))

		_, err = storage.GetUserBySessionToken(context.Background(), "tok_unknown")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrSessionInvalid))
	})

	t.Run("удаление сессии идемпотентно", func(t *testing.T) {
		factory.CreateSession(t, "tok_delete", userUID, time.Now().Add(time.Hour))

		require.NoError(t, storage.DeleteSession(context.Background(), "tok_delete"))
		require.NoError(t, storage.DeleteSession(context.Background(), "tok_delete"))

		_, err := storage.GetUserBySessionToken(context.Background(), "tok_delete")
		assert.True(t, errors.Is(err, models.ErrSessionInvalid))
	})
}

func TestStorage_RegisterUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)

	t.Run("email, заведенный при оплате, дополняется паролем", func(t *testing.T) {
		paidUID := uuid.New().String()
		factory.CreateUser(t, paidUID, "buyer@example.com", "Buyer", "", "user")

		user, err := storage.RegisterUser(context.Background(), uuid.New().String(),
			"buyer@example.com", "Buyer Name", "hash123")
		require.NoError(t, err)
		// uid существующей записи сохраняется.
		assert.Equal(t, paidUID, user.UID)
		assert.Equal(t, "hash123", user.PasswordHash)
	})

	t.Run("повторная регистрация занятого email отклоняется", func(t *testing.T) {
		_, err := storage.RegisterUser(context.Background(), uuid.New().String(),
			"buyer@example.com", "Else", "otherhash")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrAlreadyExists))
	})
}

func TestStorage_GetProductByType(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateProduct(t, "Dua Generator", "dua_generator", 499, nil, true)
	factory.CreateProduct(t, "Old Product", "old_product", 499, nil, false)

	t.Run("активный продукт находится", func(t *testing.T) {
		product, err := storage.GetProductByType(context.Background(), "dua_generator")
		require.NoError(t, err)
		assert.Equal(t, int64(499), product.PriceCents)
	})

	t.Run("неактивный продукт не находится", func(t *testing.T) {
		_, err := storage.GetProductByType(context.Background(), "old_product")
		assert.True(t, errors.Is(err, models.ErrProductNotFound))
	})

	t.Run("неизвестный ключ дает ErrProductNotFound", func(t *testing.T) {
		_, err := storage.GetProductByType(context.Background(), "missing")
		assert.True(t, errors.Is(err, models.ErrProductNotFound))
	})
}

func TestStorage_LogUsage(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "f@example.com", "Farida", "", "user")

	id, err := storage.LogUsage(context.Background(), models.UsageEntry{
		UserUID:     userUID,
		ProductType: "dua_generator",
		Action:      "generate",
		Metadata:    map[string]any{"topic": "gratitude"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}
