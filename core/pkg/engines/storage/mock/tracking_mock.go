package mock

import (
	"context"
	"time"

	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) SelectByUsername(ctx context.Context, username string) (bool, *models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(1).(*models.User)
	return args.Bool(0), user, args.Error(2)
}

func (m *MockUserRepo) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	inserted, _ := args.Get(0).(*models.User)
	return inserted, args.Error(1)
}

func (m *MockUserRepo) SelectByID(ctx context.Context, id int64) (bool, *models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(1).(*models.User)
	return args.Bool(0), user, args.Error(2)
}

func (m *MockUserRepo) SelectAll(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *MockUserRepo) UpdateTrackingEnabled(ctx context.Context, id int64, enabled bool) error {
	args := m.Called(ctx, id, enabled)
	return args.Error(0)
}

func (m *MockUserRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDeviceRepo struct {
	mock.Mock
}

func (m *MockDeviceRepo) Upsert(ctx context.Context, device *models.Device) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *MockDeviceRepo) SelectExists(ctx context.Context, deviceID string) (bool, *models.Device, error) {
	args := m.Called(ctx, deviceID)
	device, _ := args.Get(1).(*models.Device)
	return args.Bool(0), device, args.Error(2)
}

func (m *MockDeviceRepo) TouchLastSeen(ctx context.Context, deviceID string, ts time.Time) error {
	args := m.Called(ctx, deviceID, ts)
	return args.Error(0)
}

func (m *MockDeviceRepo) Deactivate(ctx context.Context, deviceID string) error {
	args := m.Called(ctx, deviceID)
	return args.Error(0)
}

func (m *MockDeviceRepo) SelectByUserID(ctx context.Context, userID int64) ([]models.Device, error) {
	args := m.Called(ctx, userID)
	devices, _ := args.Get(0).([]models.Device)
	return devices, args.Error(1)
}

type MockLocationRepo struct {
	mock.Mock
}

func (m *MockLocationRepo) Insert(ctx context.Context, location *models.Location) (*models.Location, error) {
	args := m.Called(ctx, location)
	inserted, _ := args.Get(0).(*models.Location)
	return inserted, args.Error(1)
}

func (m *MockLocationRepo) SelectLatestPerUser(ctx context.Context, since int64) ([]models.Location, error) {
	args := m.Called(ctx, since)
	locations, _ := args.Get(0).([]models.Location)
	return locations, args.Error(1)
}

func (m *MockLocationRepo) SelectByUsername(ctx context.Context, username string, limit int) ([]models.Location, error) {
	args := m.Called(ctx, username, limit)
	locations, _ := args.Get(0).([]models.Location)
	return locations, args.Error(1)
}

type MockActiveUserRepo struct {
	mock.Mock
}

func (m *MockActiveUserRepo) Upsert(ctx context.Context, user *models.ActiveUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockActiveUserRepo) SelectSince(ctx context.Context, since int64) ([]models.ActiveUser, error) {
	args := m.Called(ctx, since)
	users, _ := args.Get(0).([]models.ActiveUser)
	return users, args.Error(1)
}
