package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOKWithData(t *testing.T) {
	resp := StatusOKWithData(map[string]any{"id": 1})
	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestErrorCode(t *testing.T) {
	resp := ErrorCode(CodeProductNotFound, "product not found")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, CodeProductNotFound, resp.ErrorCode)
	assert.Equal(t, "product not found", resp.Error)
}

func TestValidationError(t *testing.T) {
	type request struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
		UserUID  string `validate:"required,uuid"`
	}

	tests := []struct {
		name    string
		req     request
		wantMsg string
	}{
		{
			name:    "пустые обязательные поля",
			req:     request{},
			wantMsg: "field Email is a required field, field Password is a required field, field UserUID is a required field",
		},
		{
			name:    "некорректный email",
			req:     request{Email: "not-an-email", Password: "secret-password", UserUID: "3f2a4b1c-9d6e-4a7f-8b0c-1d2e3f4a5b6c"},
			wantMsg: "field Email must be a valid email",
		},
		{
			name:    "короткий пароль",
			req:     request{Email: "a@example.com", Password: "short", UserUID: "3f2a4b1c-9d6e-4a7f-8b0c-1d2e3f4a5b6c"},
			wantMsg: "field Password is too short",
		},
		{
			name:    "не uuid",
			req:     request{Email: "a@example.com", Password: "secret-password", UserUID: "not-a-uuid"},
			wantMsg: "field UserUID can contain only uuid",
		},
	}

	validate := validator.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)
			require.Error(t, err)

			resp := ValidationError(err.(validator.ValidationErrors))
			assert.Equal(t, StatusError, resp.Status)
			assert.Equal(t, CodeInvalidRequest, resp.ErrorCode)
			assert.Equal(t, tt.wantMsg, resp.Error)
		})
	}
}
