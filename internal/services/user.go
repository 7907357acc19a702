package services

import (
	"context"

	"github.com/deepcave/auth-service/internal/apperrors"
	"github.com/deepcave/auth-service/internal/logger"
	"github.com/deepcave/auth-service/internal/models"
	"github.com/google/uuid"
)

var ErrUserNotFound = apperrors.NotFound("User not found")

// UserLister defines read operations the user service needs from storage.
type UserLister interface {
	List(ctx context.Context) ([]models.UserDB, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// UserService serves the read-only user endpoints.
type UserService struct {
	reader UserLister
}

// NewUserService creates a new UserService instance.
func NewUserService(reader UserLister) *UserService {
	return &UserService{reader: reader}
}

// List returns all users without credential fields.
func (svc *UserService) List(ctx context.Context) ([]models.UserDB, error) {
	users, err := svc.reader.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "err", err)
		return nil, err
	}
	return users, nil
}

// GetByID returns a single user or ErrUserNotFound.
func (svc *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
