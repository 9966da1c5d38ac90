package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenPayload struct {
	UserID string `json:"userId" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"role" validate:"required,oneof=admin user guest"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		err := ValidateStruct(tokenPayload{
			UserID: "user-1",
			Email:  "user@example.com",
			Role:   "admin",
		})
		assert.NoError(t, err)
	})

	t.Run("missing field named by its json tag", func(t *testing.T) {
		err := ValidateStruct(tokenPayload{Email: "user@example.com", Role: "user"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "userId is required")
	})

	t.Run("bad email", func(t *testing.T) {
		err := ValidateStruct(tokenPayload{UserID: "u", Email: "nope", Role: "user"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email must be a valid email")
	})

	t.Run("out of set", func(t *testing.T) {
		err := ValidateStruct(tokenPayload{UserID: "u", Email: "user@example.com", Role: "owner"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "role must be one of: admin user guest")
	})

	t.Run("multiple failures joined", func(t *testing.T) {
		err := ValidateStruct(tokenPayload{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "; ")
	})

	t.Run("unmapped tag falls back to generic message", func(t *testing.T) {
		payload := struct {
			Count int `json:"count" validate:"min=1"`
		}{Count: 0}

		err := ValidateStruct(payload)
		require.Error(t, err)
		assert.Equal(t, "count is invalid", err.Error())
	})
}
