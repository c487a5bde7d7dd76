package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	storagemock "github.com/geotrackio/geotrack/core/pkg/engines/storage/mock"
	"github.com/geotrackio/geotrack/core/pkg/errs"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/services"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type touchRecorder struct {
	touched []string
}

func (r *touchRecorder) TouchDevice(deviceID string) bool {
	r.touched = append(r.touched, deviceID)
	return true
}

type locationTestEnv struct {
	svc         *LocationServiceBackend
	locations   *storagemock.MockLocationRepo
	activeUsers *storagemock.MockActiveUserRepo
	stream      *recordingStream
	devices     *touchRecorder
	clock       *testClock
}

func newLocationTestEnv() *locationTestEnv {
	env := &locationTestEnv{
		locations:   new(storagemock.MockLocationRepo),
		activeUsers: new(storagemock.MockActiveUserRepo),
		stream:      &recordingStream{},
		devices:     &touchRecorder{},
		clock:       &testClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
	}

	env.svc = NewLocationService(LocationServiceBuilder{
		Logger:             logrus.New().WithField("subsystem", "Locations"),
		LocationsStorage:   env.locations,
		ActiveUsersStorage: env.activeUsers,
		Devices:            env.devices,
		Stream:             env.stream,
		Clock:              env.clock.Now,
	})

	return env
}

func ptr(f float64) *float64 {
	return &f
}

func TestIngestLocation(t *testing.T) {
	env := newLocationTestEnv()
	ts := env.clock.Now().UnixMilli()

	stored := &models.Location{
		ID:        7,
		UserID:    "1",
		Username:  "alice",
		DeviceID:  "d1",
		Latitude:  6.2,
		Longitude: -75.5,
		Accuracy:  ptr(5),
		Timestamp: ts,
	}

	env.locations.On("Insert", mock.Anything, mock.MatchedBy(func(l *models.Location) bool {
		return l.UserID == "1" && l.Latitude == 6.2 && l.Longitude == -75.5 && l.Timestamp == ts
	})).Return(stored, nil)
	env.activeUsers.On("Upsert", mock.Anything, &models.ActiveUser{
		UserID:     "1",
		Username:   "alice",
		Role:       models.UserRoleUser,
		LastActive: ts,
	}).Return(nil)

	location, err := env.svc.IngestLocation(context.Background(), services.IngestLocationInput{
		UserID:    "1",
		Username:  "alice",
		DeviceID:  "d1",
		Latitude:  ptr(6.2),
		Longitude: ptr(-75.5),
		Accuracy:  ptr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, ts, location.Timestamp)

	events := env.stream.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.StreamEventLocationUpdate, events[0].eventType)
	assert.Equal(t, *stored, events[0].data)
	assert.Equal(t, []string{"d1"}, env.devices.touched)

	env.locations.AssertExpectations(t)
	env.activeUsers.AssertExpectations(t)
}

func TestIngestLocationWithoutDevice(t *testing.T) {
	env := newLocationTestEnv()
	env.locations.On("Insert", mock.Anything, mock.Anything).Return(&models.Location{UserID: "1"}, nil)
	env.activeUsers.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	_, err := env.svc.IngestLocation(context.Background(), services.IngestLocationInput{
		UserID:    "1",
		Username:  "alice",
		Latitude:  ptr(0),
		Longitude: ptr(0),
	})
	require.NoError(t, err)
	assert.Empty(t, env.devices.touched)
	assert.Len(t, env.stream.Events(), 1)
}

func TestIngestLocationValidation(t *testing.T) {
	env := newLocationTestEnv()

	valid := func() services.IngestLocationInput {
		return services.IngestLocationInput{
			UserID:    "1",
			Username:  "alice",
			Latitude:  ptr(6.2),
			Longitude: ptr(-75.5),
		}
	}

	var testcases = []struct {
		name   string
		mutate func(*services.IngestLocationInput)
	}{
		{name: "MissingUserID", mutate: func(in *services.IngestLocationInput) { in.UserID = "" }},
		{name: "MissingUsername", mutate: func(in *services.IngestLocationInput) { in.Username = "" }},
		{name: "MissingLatitude", mutate: func(in *services.IngestLocationInput) { in.Latitude = nil }},
		{name: "MissingLongitude", mutate: func(in *services.IngestLocationInput) { in.Longitude = nil }},
		{name: "LatitudeOutOfRange", mutate: func(in *services.IngestLocationInput) { in.Latitude = ptr(91) }},
		{name: "LongitudeOutOfRange", mutate: func(in *services.IngestLocationInput) { in.Longitude = ptr(-181) }},
		{name: "LatitudeNaN", mutate: func(in *services.IngestLocationInput) { in.Latitude = ptr(math.NaN()) }},
		{name: "LongitudeInf", mutate: func(in *services.IngestLocationInput) { in.Longitude = ptr(math.Inf(1)) }},
		{name: "NegativeAccuracy", mutate: func(in *services.IngestLocationInput) { in.Accuracy = ptr(-1) }},
		{name: "InfiniteAccuracy", mutate: func(in *services.IngestLocationInput) { in.Accuracy = ptr(math.Inf(1)) }},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			input := valid()
			tc.mutate(&input)

			_, err := env.svc.IngestLocation(context.Background(), input)
			assert.ErrorIs(t, err, errs.ErrValidateBadRequest)
		})
	}

	env.locations.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	assert.Empty(t, env.stream.Events())
}

func TestIngestLocationInsertFailureIsNotBroadcast(t *testing.T) {
	env := newLocationTestEnv()
	env.locations.On("Insert", mock.Anything, mock.Anything).Return(nil, errors.New("context deadline exceeded"))

	_, err := env.svc.IngestLocation(context.Background(), services.IngestLocationInput{
		UserID:    "1",
		Username:  "alice",
		DeviceID:  "d1",
		Latitude:  ptr(6.2),
		Longitude: ptr(-75.5),
	})
	assert.ErrorIs(t, err, errs.ErrPersistence)
	assert.Empty(t, env.stream.Events())
	assert.Empty(t, env.devices.touched)
	env.activeUsers.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestIngestLocationActivityFailureIsNotBroadcast(t *testing.T) {
	env := newLocationTestEnv()
	env.locations.On("Insert", mock.Anything, mock.Anything).Return(&models.Location{UserID: "1"}, nil)
	env.activeUsers.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	_, err := env.svc.IngestLocation(context.Background(), services.IngestLocationInput{
		UserID:    "1",
		Username:  "alice",
		Latitude:  ptr(6.2),
		Longitude: ptr(-75.5),
	})
	assert.ErrorIs(t, err, errs.ErrPersistence)
	assert.Empty(t, env.stream.Events())
}

func TestGetLatestLocations(t *testing.T) {
	env := newLocationTestEnv()

	var testcases = []struct {
		timeframe models.Timeframe
		window    time.Duration
	}{
		{timeframe: models.Timeframe1h, window: time.Hour},
		{timeframe: models.Timeframe7d, window: 7 * 24 * time.Hour},
		{timeframe: "", window: 24 * time.Hour},
		{timeframe: "forever", window: 24 * time.Hour},
	}

	for _, tc := range testcases {
		since := env.clock.Now().Add(-tc.window).UnixMilli()
		expected := []models.Location{{UserID: "1", Timestamp: since + 1}}
		env.locations.On("SelectLatestPerUser", mock.Anything, since).Return(expected, nil).Once()

		locations, err := env.svc.GetLatestLocations(context.Background(), services.GetLatestLocationsInput{Timeframe: tc.timeframe})
		require.NoError(t, err, tc.timeframe)
		assert.Equal(t, expected, locations, tc.timeframe)
	}
}

func TestGetLatestLocationsStorageError(t *testing.T) {
	env := newLocationTestEnv()
	env.locations.On("SelectLatestPerUser", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := env.svc.GetLatestLocations(context.Background(), services.GetLatestLocationsInput{})
	assert.ErrorIs(t, err, errs.ErrPersistence)
}

func TestGetActiveUsers(t *testing.T) {
	env := newLocationTestEnv()

	since := env.clock.Now().Add(-DefaultActiveUsersWindow).UnixMilli()
	users := []models.ActiveUser{{UserID: "1", Username: "alice", Role: models.UserRoleUser, LastActive: since + 10}}
	env.activeUsers.On("SelectSince", mock.Anything, since).Return(users, nil)

	active, err := env.svc.GetActiveUsers(context.Background(), services.GetActiveUsersInput{})
	require.NoError(t, err)
	assert.Equal(t, users, active)

	since = env.clock.Now().Add(-5 * time.Minute).UnixMilli()
	env.activeUsers.On("SelectSince", mock.Anything, since).Return([]models.ActiveUser{}, nil)

	active, err = env.svc.GetActiveUsers(context.Background(), services.GetActiveUsersInput{Within: 5 * time.Minute})
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestGetActiveUsersNegativeWindow(t *testing.T) {
	env := newLocationTestEnv()

	_, err := env.svc.GetActiveUsers(context.Background(), services.GetActiveUsersInput{Within: -time.Minute})
	assert.ErrorIs(t, err, errs.ErrValidateBadRequest)
}
