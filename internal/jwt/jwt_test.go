package jwt

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/deepcave/auth-service/internal/apperrors"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNew_RequiresConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		issuer string
		exp    time.Duration
	}{
		{"missing secret", "", "deepcave-auth", time.Minute},
		{"missing expiration", "secret", "deepcave-auth", 0},
		{"negative expiration", "secret", "deepcave-auth", -time.Minute},
		{"missing issuer", "secret", "", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := New(tt.secret, tt.issuer, tt.exp)
			assert.Nil(t, j)

			var appErr *apperrors.Error
			assert.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.CodeConfiguration, appErr.Code)
		})
	}
}

func TestJWT_GenerateAndGetUserID(t *testing.T) {
	j, err := New("test-secret", "deepcave-auth", time.Minute)
	assert.NoError(t, err)

	userID := uuid.New()
	ctx := context.Background()

	token, err := j.Generate(ctx, userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	got, err := j.GetUserID(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, userID, got)

	assert.NoError(t, j.Validate(ctx, token))
}

func TestJWT_ExpiredToken(t *testing.T) {
	j, err := New("test-secret", "deepcave-auth", time.Millisecond)
	assert.NoError(t, err)

	ctx := context.Background()
	token, err := j.Generate(ctx, uuid.New())
	assert.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	err = j.Validate(ctx, token)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, jwtlib.ErrTokenExpired))
}

func TestJWT_WrongSecret(t *testing.T) {
	j1, _ := New("secret1", "deepcave-auth", time.Minute)
	j2, _ := New("secret2", "deepcave-auth", time.Minute)
	ctx := context.Background()

	token, err := j1.Generate(ctx, uuid.New())
	assert.NoError(t, err)

	err = j2.Validate(ctx, token)
	assert.Error(t, err)
}

func TestJWT_WrongIssuer(t *testing.T) {
	j1, _ := New("secret", "someone-else", time.Minute)
	j2, _ := New("secret", "deepcave-auth", time.Minute)
	ctx := context.Background()

	token, err := j1.Generate(ctx, uuid.New())
	assert.NoError(t, err)

	err = j2.Validate(ctx, token)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, jwtlib.ErrTokenInvalidIssuer))
}

func TestJWT_TamperedToken(t *testing.T) {
	j, _ := New("test-secret", "deepcave-auth", time.Minute)
	ctx := context.Background()

	token, err := j.Generate(ctx, uuid.New())
	assert.NoError(t, err)

	// Flip a character in the payload segment
	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	if payload[0] == 'a' {
		payload[0] = 'b'
	} else {
		payload[0] = 'a'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	assert.Error(t, j.Validate(ctx, tampered))
}

func TestJWT_InvalidTokenString(t *testing.T) {
	j, _ := New("test-secret", "deepcave-auth", time.Minute)
	ctx := context.Background()

	err := j.Validate(ctx, "invalid.token.string")
	assert.Error(t, err)

	userID, err := j.GetUserID(ctx, "invalid.token.string")
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, userID)
}

func TestJWT_GetTokenFromRequest(t *testing.T) {
	j, _ := New("test-secret", "deepcave-auth", time.Minute)
	ctx := context.Background()

	tests := []struct {
		name          string
		header        string
		cookie        string
		expectedToken string
		expectError   bool
	}{
		{"ValidBearer", "Bearer mytoken123", "", "mytoken123", false},
		{"LowercaseBearer", "bearer mytoken123", "", "mytoken123", false},
		{"CookieFallback", "", "cookietoken", "cookietoken", false},
		{"HeaderWinsOverCookie", "Bearer headertoken", "cookietoken", "headertoken", false},
		{"NoHeaderNoCookie", "", "", "", true},
		{"InvalidFormat", "Token mytoken123", "", "", true},
		{"TooManyParts", "Bearer a b c", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}

			token, err := j.GetTokenFromRequest(ctx, req)
			if tt.expectError {
				assert.Error(t, err)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedToken, token)
			}
		})
	}
}
