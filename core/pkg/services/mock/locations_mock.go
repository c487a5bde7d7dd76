package mock

import (
	"context"

	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/services"
	"github.com/stretchr/testify/mock"
)

type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) IngestLocation(ctx context.Context, input services.IngestLocationInput) (*models.Location, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(*models.Location), args.Error(1)
}

func (m *MockLocationService) GetLatestLocations(ctx context.Context, input services.GetLatestLocationsInput) ([]models.Location, error) {
	args := m.Called(ctx, input)
	return args.Get(0).([]models.Location), args.Error(1)
}

func (m *MockLocationService) GetActiveUsers(ctx context.Context, input services.GetActiveUsersInput) ([]models.ActiveUser, error) {
	args := m.Called(ctx, input)
	return args.Get(0).([]models.ActiveUser), args.Error(1)
}
