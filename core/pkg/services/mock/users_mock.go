package mock

import (
	"context"

	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/services"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, input services.CreateUserInput) (*models.User, error) {
	args := m.Called(ctx, input)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserService) GetUserDetails(ctx context.Context, input services.GetUserDetailsInput) (*models.UserDetails, error) {
	args := m.Called(ctx, input)
	details, _ := args.Get(0).(*models.UserDetails)
	return details, args.Error(1)
}

func (m *MockUserService) GetTrackingStatus(ctx context.Context, input services.GetTrackingStatusInput) (*models.TrackingStatus, error) {
	args := m.Called(ctx, input)
	status, _ := args.Get(0).(*models.TrackingStatus)
	return status, args.Error(1)
}

func (m *MockUserService) UpdateUserTracking(ctx context.Context, input services.UpdateUserTrackingInput) (*models.User, error) {
	args := m.Called(ctx, input)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, input services.DeleteUserInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}
