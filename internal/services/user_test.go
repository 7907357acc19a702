package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/deepcave/auth-service/internal/apperrors"
	"github.com/deepcave/auth-service/internal/models"
	"github.com/deepcave/auth-service/internal/services"
)

func TestUserService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserLister(ctrl)
	svc := services.NewUserService(mockReader)

	users := []models.UserDB{
		{UserID: uuid.New(), UserName: "abc", Email: "a@x.com"},
		{UserID: uuid.New(), UserName: "def", Email: "d@x.com"},
	}

	mockReader.EXPECT().List(gomock.Any()).Return(users, nil)

	got, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, got, 2)

	mockReader.EXPECT().List(gomock.Any()).Return(nil, errors.New("db error"))

	_, err = svc.List(context.Background())
	assert.EqualError(t, err, "db error")
}

func TestUserService_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserLister(ctrl)
	svc := services.NewUserService(mockReader)

	userID := uuid.New()
	user := &models.UserDB{UserID: userID, UserName: "abc", Email: "a@x.com"}

	mockReader.EXPECT().GetByID(gomock.Any(), userID).Return(user, nil)

	got, err := svc.GetByID(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserLister(ctrl)
	svc := services.NewUserService(mockReader)

	userID := uuid.New()
	mockReader.EXPECT().GetByID(gomock.Any(), userID).Return(nil, nil)

	_, err := svc.GetByID(context.Background(), userID)
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	var appErr *apperrors.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.StatusCode)
}
