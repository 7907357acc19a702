package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/deepcave/auth-service/internal/apperrors"
	"github.com/deepcave/auth-service/internal/middlewares"
)

// NewMeHandler returns an HTTP handler serving the authenticated caller's
// own record. The auth middleware must run before it.
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.GetUserResponse "Caller's user record"
// @Failure 401 {object} apperrors.Response "Missing or invalid session token"
// @Router /users/me [get]
func NewMeHandler(svc UserProvider, devMode bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFromContext(r.Context())
		if !ok {
			apperrors.Write(w, apperrors.Authentication("You are not logged in! Please log in to get access."), devMode)
			return
		}

		user, err := svc.GetByID(r.Context(), userID)
		if err != nil {
			apperrors.Write(w, err, devMode)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(GetUserResponse{
			Status: "success",
			Data:   GetUserData{User: user.View()},
		})
	}
}
