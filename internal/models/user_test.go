package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// The wire projection must never carry credential material, no matter how the
// row was loaded.
func TestUserDB_View_ExcludesCredentials(t *testing.T) {
	now := time.Now()
	resetToken := "reset-token"

	u := UserDB{
		UserID:             uuid.New(),
		UserName:           "abc",
		Email:              "a@x.com",
		PasswordHash:       "bcrypt-digest",
		PasswordResetToken: &resetToken,
		Role:               RoleUser,
		Cave:               json.RawMessage(`{"depth":3}`),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	data, err := json.Marshal(u.View())
	assert.NoError(t, err)

	var out map[string]any
	assert.NoError(t, json.Unmarshal(data, &out))

	assert.NotContains(t, out, "password")
	assert.NotContains(t, out, "password_hash")
	assert.NotContains(t, out, "password_reset_token")
	assert.NotContains(t, out, "password_reset_expires")
	assert.NotContains(t, string(data), "bcrypt-digest")

	assert.Equal(t, "a@x.com", out["email"])
	assert.Equal(t, "abc", out["user_name"])
	assert.Equal(t, "user", out["role"])
	assert.Equal(t, map[string]any{"depth": float64(3)}, out["cave"])
}
