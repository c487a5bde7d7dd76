package mock

import (
	"context"

	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/services"
	"github.com/stretchr/testify/mock"
)

type MockTrackingService struct {
	mock.Mock
}

func (m *MockTrackingService) RegisterDevice(ctx context.Context, input services.RegisterDeviceInput) (*models.DeviceSession, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(*models.DeviceSession), args.Error(1)
}

func (m *MockTrackingService) IssueCommand(ctx context.Context, input services.IssueCommandInput) (*models.Command, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(*models.Command), args.Error(1)
}

func (m *MockTrackingService) BroadcastCommand(ctx context.Context, input services.BroadcastCommandInput) (int, error) {
	args := m.Called(ctx, input)
	return args.Int(0), args.Error(1)
}

func (m *MockTrackingService) RemoveDevice(ctx context.Context, input services.RemoveDeviceInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockTrackingService) AcknowledgeCommand(ctx context.Context, input services.AcknowledgeCommandInput) (bool, error) {
	args := m.Called(ctx, input)
	return args.Bool(0), args.Error(1)
}

func (m *MockTrackingService) PollCommands(ctx context.Context, input services.PollCommandsInput) ([]models.Command, error) {
	args := m.Called(ctx, input)
	return args.Get(0).([]models.Command), args.Error(1)
}

func (m *MockTrackingService) GetDevices(ctx context.Context) ([]models.DeviceSession, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.DeviceSession), args.Error(1)
}

func (m *MockTrackingService) GetDeviceByID(ctx context.Context, input services.GetDeviceByIDInput) (*models.DeviceSession, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(*models.DeviceSession), args.Error(1)
}
