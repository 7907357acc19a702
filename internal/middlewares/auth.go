package middlewares

import (
	"context"
	"net/http"

	"github.com/deepcave/auth-service/internal/apperrors"
	"github.com/deepcave/auth-service/internal/logger"
	"github.com/google/uuid"
)

// Tokener defines the minimal token operations needed by the middleware.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetUserID(ctx context.Context, tokenString string) (uuid.UUID, error)
}

type userIDKey struct{}

// UserIDFromContext returns the authenticated user id stored by AuthMiddleware.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	return userID, ok
}

// AuthMiddleware validates the session token (Authorization header or jwt
// cookie) and stores the subject in the request context. Failures are
// rendered through the error classifier, so malformed and expired tokens get
// the re-authentication message.
func AuthMiddleware(tokener Tokener, devMode bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Infow("authorization failed", "err", err)
				apperrors.Write(w, apperrors.Authentication("You are not logged in! Please log in to get access."), devMode)
				return
			}

			userID, err := tokener.GetUserID(ctx, tokenString)
			if err != nil {
				logger.Log.Infow("authorization failed", "err", err)
				apperrors.Write(w, err, devMode)
				return
			}

			ctx = context.WithValue(ctx, userIDKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
