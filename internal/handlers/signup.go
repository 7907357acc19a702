package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/deepcave/auth-service/internal/apperrors"
	"github.com/deepcave/auth-service/internal/models"
)

// SignUpper defines the interface that the sign-up service must implement.
type SignUpper interface {
	SignUp(ctx context.Context, email, userName, password, passwordConfirm string) (*models.UserDB, string, error)
}

// SignupRequest represents the JSON body for user registration
// swagger:model SignupRequest
type SignupRequest struct {
	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email"`

	// Username
	// required: true
	// example: john_doe
	UserName string `json:"user_name"`

	// Password
	// required: true
	// example: secret1234
	Password string `json:"password"`

	// Password confirmation, must equal password
	// required: true
	// example: secret1234
	PasswordConfirm string `json:"password_confirm"`
}

// SignupResponse represents a successful registration response
// swagger:model SignupResponse
type SignupResponse struct {
	// Response status
	// example: success
	Status string `json:"status"`

	// Session token
	// example: JWT_TOKEN
	Token string `json:"token"`

	Data SignupData `json:"data"`
}

// SignupData wraps the created user.
type SignupData struct {
	User models.UserView `json:"user"`
}

// NewSignupHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account with unique username and email. The password is hashed before storing and a session token is issued.
// @Tags auth
// @Accept json
// @Produce json
// @Param signupRequest body handlers.SignupRequest true "User registration request"
// @Success 201 {object} handlers.SignupResponse "User registered, session token issued"
// @Failure 400 {object} apperrors.Response "Missing fields, invalid values or password mismatch"
// @Failure 409 {object} apperrors.Response "Username or email already taken"
// @Router /auth/signup [post]
func NewSignupHandler(svc SignUpper, cookies *SessionCookies, devMode bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apperrors.Write(w, apperrors.Validation("Invalid request body"), devMode)
			return
		}

		user, token, err := svc.SignUp(r.Context(), req.Email, req.UserName, req.Password, req.PasswordConfirm)
		if err != nil {
			apperrors.Write(w, err, devMode)
			return
		}

		cookies.Set(w, token)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(SignupResponse{
			Status: "success",
			Token:  token,
			Data:   SignupData{User: user.View()},
		})
	}
}
