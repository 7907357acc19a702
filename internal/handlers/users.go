package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/deepcave/auth-service/internal/apperrors"
	"github.com/deepcave/auth-service/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// UserProvider defines the interface that the user read service must implement.
type UserProvider interface {
	List(ctx context.Context) ([]models.UserDB, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// ListUsersResponse represents the user listing response
// swagger:model ListUsersResponse
type ListUsersResponse struct {
	// Response status
	// example: success
	Status string `json:"status"`

	// Number of users returned
	// example: 2
	Results int `json:"results"`

	Data ListUsersData `json:"data"`
}

// ListUsersData wraps the listed users.
type ListUsersData struct {
	Users []models.UserView `json:"users"`
}

// GetUserResponse represents a single-user response
// swagger:model GetUserResponse
type GetUserResponse struct {
	// Response status
	// example: success
	Status string `json:"status"`

	Data GetUserData `json:"data"`
}

// GetUserData wraps the returned user.
type GetUserData struct {
	User models.UserView `json:"user"`
}

// NewListUsersHandler returns an HTTP handler listing all users.
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} handlers.ListUsersResponse "All users, credential fields excluded"
// @Router /users [get]
func NewListUsersHandler(svc UserProvider, devMode bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.List(r.Context())
		if err != nil {
			apperrors.Write(w, err, devMode)
			return
		}

		views := make([]models.UserView, 0, len(users))
		for i := range users {
			views = append(views, users[i].View())
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ListUsersResponse{
			Status:  "success",
			Results: len(views),
			Data:    ListUsersData{Users: views},
		})
	}
}

// NewGetUserHandler returns an HTTP handler fetching one user by id.
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path string true "User id (UUID)"
// @Success 200 {object} handlers.GetUserResponse "User found"
// @Failure 400 {object} apperrors.Response "Malformed id"
// @Failure 404 {object} apperrors.Response "User not found"
// @Router /users/{id} [get]
func NewGetUserHandler(svc UserProvider, devMode bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "id")

		userID, err := uuid.Parse(raw)
		if err != nil {
			apperrors.Write(w, apperrors.ValidationField(fmt.Sprintf("Invalid id: %s.", raw), "id"), devMode)
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
