package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/geotrackio/geotrack/core/pkg/engines/storage"
	"github.com/geotrackio/geotrack/core/pkg/errs"
	chelpers "github.com/geotrackio/geotrack/core/pkg/helpers"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var locationValidate *validator.Validate

const DefaultActiveUsersWindow = 30 * time.Minute

type LocationMiddleware func(services.LocationService) services.LocationService

// DeviceToucher refreshes the liveness of a device session.
type DeviceToucher interface {
	TouchDevice(deviceID string) bool
}

type LocationMetrics interface {
	LocationIngested()
}

type noopLocationMetrics struct{}

func (noopLocationMetrics) LocationIngested() {}

type LocationServiceBackend struct {
	locationsStorage   storage.LocationRepo
	activeUsersStorage storage.ActiveUserRepo
	devices            DeviceToucher
	stream             StreamPublisher
	metrics            LocationMetrics
	logger             *logrus.Entry
	now                func() time.Time
}

type LocationServiceBuilder struct {
	Logger             *logrus.Entry
	LocationsStorage   storage.LocationRepo
	ActiveUsersStorage storage.ActiveUserRepo
	Devices            DeviceToucher
	Stream             StreamPublisher
	Metrics            LocationMetrics
	Clock              func() time.Time
}

func NewLocationService(builder LocationServiceBuilder) *LocationServiceBackend {
	locationValidate = validator.New()

	metrics := builder.Metrics
	if metrics == nil {
		metrics = noopLocationMetrics{}
	}

	now := builder.Clock
	if now == nil {
		now = time.Now
	}

	svc := &LocationServiceBackend{
		locationsStorage:   builder.LocationsStorage,
		activeUsersStorage: builder.ActiveUsersStorage,
		devices:            builder.Devices,
		stream:             builder.Stream,
		metrics:            metrics,
		logger:             builder.Logger,
		now:                now,
	}

	return svc
}

// IngestLocation stores a fix stamped with the server time and broadcasts
// it. Nothing is broadcast unless the fix and the user activity were stored.
func (svc *LocationServiceBackend) IngestLocation(ctx context.Context, input services.IngestLocationInput) (*models.Location, error) {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := locationValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return nil, errs.ErrValidateBadRequest
	}

	if !isFinite(*input.Latitude) || !isFinite(*input.Longitude) || (input.Accuracy != nil && !isFinite(*input.Accuracy)) {
		lFunc.Errorf("location of user '%s' has non finite coordinates", input.Username)
		return nil, errs.ErrValidateBadRequest
	}

	timestamp := svc.now().UnixMilli()
	location := &models.Location{
		UserID:    input.UserID,
		Username:  input.Username,
		DeviceID:  input.DeviceID,
		Latitude:  *input.Latitude,
		Longitude: *input.Longitude,
		Accuracy:  input.Accuracy,
		Timestamp: timestamp,
	}

	lFunc.Debugf("storing location of user '%s'", input.Username)
	stored, err := svc.locationsStorage.Insert(ctx, location)
	if err != nil {
		lFunc.Errorf("could not insert location of user '%s' in storage engine: %s", input.Username, err)
		return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}

	err = svc.activeUsersStorage.Upsert(ctx, &models.ActiveUser{
		UserID:     input.UserID,
		Username:   input.Username,
		Role:       models.UserRoleUser,
		LastActive: timestamp,
	})
	if err != nil {
		lFunc.Errorf("could not update activity of user '%s' in storage engine: %s", input.Username, err)
		return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}

	if input.DeviceID != "" && svc.devices != nil {
		svc.devices.TouchDevice(input.DeviceID)
	}

	svc.metrics.LocationIngested()
	svc.stream.Publish(models.StreamEventLocationUpdate, *stored)

	lFunc.Infof("location updated for user '%s': %f, %f", input.Username, stored.Latitude, stored.Longitude)
	return stored, nil
}

func (svc *LocationServiceBackend) GetLatestLocations(ctx context.Context, input services.GetLatestLocationsInput) ([]models.Location, error) {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	since := svc.now().Add(-input.Timeframe.Duration()).UnixMilli()

	lFunc.Debugf("reading latest locations since %d", since)
	locations, err := svc.locationsStorage.SelectLatestPerUser(ctx, since)
	if err != nil {
		lFunc.Errorf("could not read latest locations from storage engine: %s", err)
		return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}

	return locations, nil
}

func (svc *LocationServiceBackend) GetActiveUsers(ctx context.Context, input services.GetActiveUsersInput) ([]models.ActiveUser, error) {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := locationValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return nil, errs.ErrValidateBadRequest
	}

	within := input.Within
	if within == 0 {
		within = DefaultActiveUsersWindow
	}

	since := svc.now().Add(-within).UnixMilli()
	users, err := svc.activeUsersStorage.SelectSince(ctx, since)
	if err != nil {
		lFunc.Errorf("could not read active users from storage engine: %s", err)
		return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}

	return users, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
