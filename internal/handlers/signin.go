package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/deepcave/auth-service/internal/apperrors"
)

// SignInner defines the interface that the sign-in service must implement.
type SignInner interface {
	SignIn(ctx context.Context, email, password string) (string, error)
}

// SigninRequest represents the JSON body for user sign-in
// swagger:model SigninRequest
type SigninRequest struct {
	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// example: secret1234
	Password string `json:"password"`
}

// SigninResponse represents a successful sign-in response
// swagger:model SigninResponse
type SigninResponse struct {
	// Response status
	// example: success
	Status string `json:"status"`

	// Session token
	// example: JWT_TOKEN
	Token string `json:"token"`

	// Message
	// example: Login successful
	Message string `json:"message"`
}

// NewSigninHandler returns an HTTP handler for user sign-in.
// @Summary Sign in
// @Description Authenticate with email and password; issues a session token. Unknown email and wrong password return the same 401 response.
// @Tags auth
// @Accept json
// @Produce json
// @Param signinRequest body handlers.SigninRequest true "Sign-in request"
// @Success 200 {object} handlers.SigninResponse "Session token issued"
// @Failure 400 {object} apperrors.Response "Missing fields"
// @Failure 401 {object} apperrors.Response "Invalid email or password"
// @Router /auth/signin [post]
func NewSigninHandler(svc SignInner, cookies *SessionCookies, devMode bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SigninRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apperrors.Write(w, apperrors.Validation("Invalid request body"), devMode)
			return
		}

		token, err := svc.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			apperrors.Write(w, err, devMode)
			return
		}

		cookies.Set(w, token)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(SigninResponse{
			Status:  "success",
			Token:   token,
			Message: "Login successful",
		})
	}
}
