package jwt

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/deepcave/auth-service/internal/apperrors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the session cookie the token is mirrored into.
const CookieName = "jwt"

var (
	ErrTokenMissing = errors.New("authorization token missing")
)

// JWT issues and validates HS256 session tokens.
type JWT struct {
	secretKey string
	issuer    string
	exp       time.Duration
}

// New creates a JWT issuer. The secret and expiration are required; a missing
// value is a configuration error and must abort startup rather than surface
// later on a request path.
func New(secretKey, issuer string, expiration time.Duration) (*JWT, error) {
	if secretKey == "" {
		return nil, apperrors.Configuration("JWT signing secret is not configured")
	}
	if expiration <= 0 {
		return nil, apperrors.Configuration("JWT expiration is not configured")
	}
	if issuer == "" {
		return nil, apperrors.Configuration("JWT issuer is not configured")
	}
	return &JWT{
		secretKey: secretKey,
		issuer:    issuer,
		exp:       expiration,
	}, nil
}

// Expiration returns the configured token lifetime.
func (j *JWT) Expiration() time.Duration {
	return j.exp
}

// Generate creates a signed token with subject userID.
func (j *JWT) Generate(ctx context.Context, userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    j.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.exp)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// GetUserID parses the token string and returns the subject if the signature,
// issuer and expiry all check out.
func (j *JWT) GetUserID(ctx context.Context, tokenString string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(j.secretKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, jwt.ErrTokenUnverifiable
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, jwt.ErrTokenInvalidSubject
	}
	return userID, nil
}

// Validate checks the token without extracting the subject.
func (j *JWT) Validate(ctx context.Context, tokenString string) error {
	_, err := j.GetUserID(ctx, tokenString)
	return err
}

// GetTokenFromRequest extracts the token from the Authorization header or,
// failing that, from the session cookie.
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", errors.New("invalid authorization header format")
		}
		return parts[1], nil
	}

	cookie, err := r.Cookie(CookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", ErrTokenMissing
}
