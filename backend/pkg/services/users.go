package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/geotrackio/geotrack/core/pkg/engines/storage"
	"github.com/geotrackio/geotrack/core/pkg/errs"
	chelpers "github.com/geotrackio/geotrack/core/pkg/helpers"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var userValidate *validator.Validate

const UserDetailsLocationsLimit = 100

type UserMiddleware func(services.UserService) services.UserService

type UserServiceBackend struct {
	usersStorage     storage.UserRepo
	devicesStorage   storage.DeviceRepo
	locationsStorage storage.LocationRepo
	service          services.UserService
	logger           *logrus.Entry
	now              func() time.Time
}

type UserServiceBuilder struct {
	Logger           *logrus.Entry
	UsersStorage     storage.UserRepo
	DevicesStorage   storage.DeviceRepo
	LocationsStorage storage.LocationRepo
	Clock            func() time.Time
}

func NewUserService(builder UserServiceBuilder) *UserServiceBackend {
	userValidate = validator.New()

	now := builder.Clock
	if now == nil {
		now = time.Now
	}

	svc := &UserServiceBackend{
		usersStorage:     builder.UsersStorage,
		devicesStorage:   builder.DevicesStorage,
		locationsStorage: builder.LocationsStorage,
		logger:           builder.Logger,
		now:              now,
	}

	svc.service = svc
	return svc
}

// SetService sets the outermost service so users created on first contact
// go through the configured middlewares.
func (svc *UserServiceBackend) SetService(service services.UserService) {
	svc.service = service
}

func (svc *UserServiceBackend) GetUsers(ctx context.Context) ([]models.User, error) {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	users, err := svc.usersStorage.SelectAll(ctx)
	if err != nil {
		lFunc.Errorf("could not read users from storage engine: %s", err)
		return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}

	lFunc.Debugf("read %d users", len(users))
	return users, nil
}

func (svc *UserServiceBackend) CreateUser(ctx context.Context, input services.CreateUserInput) (*models.User, error) {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := userValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return nil, errs.ErrValidateBadRequest
	}

	lFunc.Debugf("checking if user '%s' exists", input.Username)
	exists, _, err := svc.usersStorage.SelectByUsername(ctx, input.Username)
	if err != nil {
		lFunc.Errorf("something went wrong while checking if user '%s' exists in storage engine: %s", input.Username, err)
		return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	} else if exists {
		lFunc.Errorf("user '%s' already exists in storage engine", input.Username)
		return nil, errs.ErrUserAlreadyExists
	}

	role := input.Role
	if role == "" {
		role = models.UserRoleUser
	}

	user, err := svc.usersStorage.Insert(ctx, &models.User{
		Username:  input.Username,
		Role:      role,
		CreatedAt: svc.now(),
	})
	if err != nil {
		lFunc.Errorf("could not insert user '%s' in storage engine: %s", input.Username, err)
		return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}

	lFunc.Infof("user '%s' created with role %s", user.Username, user.Role)
	return user, nil
}

func (svc *UserServiceBackend) GetUserDetails(ctx context.Context, input services.GetUserDetailsInput) (*models.UserDetails, error) {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := userValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return nil, errs.ErrValidateBadRequest
	}

	exists, user, err := svc.usersStorage.SelectByUsername(ctx, input.Username)
	if err != nil {
		lFunc.Errorf("something went wrong while reading user '%s' from storage engine: %s", input.Username, err)
		return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	} else if !exists {
		lFunc.Errorf("user '%s' can not be found in storage engine", input.Username)
		return nil, errs.ErrUserNotFound
	}

	locations, err := svc.locationsStorage.SelectByUsername(ctx, user.Username, UserDetailsLocationsLimit)
	if err != nil {
		lFunc.Errorf("could not read locations of user '%s' from storage engine: %s", user.Username, err)
		return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}

	devices, err := svc.devicesStorage.SelectByUserID(ctx, user.ID)
	if err != nil {
		lFunc.Errorf("could not read devices of user '%s' from storage engine: %s", user.Username, err)
		return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}

	details := &models.UserDetails{
		User:      *user,
		Locations: locations,
		Devices:   devices,
		Stats: models.UserStats{
			TotalLocations: len(locations),
			TotalDevices:   len(devices),
		},
	}

	if len(locations) > 0 {
		last := locations[0]
		first := locations[len(locations)-1]
		details.LastLocation = &last
		details.Stats.LastSeen = &last.Timestamp
		details.Stats.FirstSeen = &first.Timestamp
	}

	return details, nil
}

func (svc *UserServiceBackend) GetTrackingStatus(ctx context.Context, input services.GetTrackingStatusInput) (*models.TrackingStatus, error) {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := userValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return nil, errs.ErrValidateBadRequest
	}

	exists, user, err := svc.usersStorage.SelectByUsername(ctx, input.Username)
	if err != nil {
		lFunc.Errorf("something went wrong while reading user '%s' from storage engine: %s", input.Username, err)
		return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	} else if exists {
		return &models.TrackingStatus{TrackingEnabled: user.TrackingEnabled}, nil
	}

	lFunc.Infof("user '%s' reported for the first time. Creating it", input.Username)
	user, err = svc.service.CreateUser(ctx, services.CreateUserInput{
		Username: input.Username,
		Role:     models.UserRoleUser,
	})
	if errors.Is(err, errs.ErrUserAlreadyExists) {
		// created by a concurrent request
		return svc.GetTrackingStatus(ctx, input)
	} else if err != nil {
		return nil, err
	}

	return &models.TrackingStatus{TrackingEnabled: user.TrackingEnabled, UserCreated: true}, nil
}

func (svc *UserServiceBackend) UpdateUserTracking(ctx context.Context, input services.UpdateUserTrackingInput) (*models.User, error) {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := userValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return nil, errs.ErrValidateBadRequest
	}

	user, err := svc.selectModifiableUser(ctx, lFunc, input.ID)
	if err != nil {
		return nil, err
	}

	err = svc.usersStorage.UpdateTrackingEnabled(ctx, user.ID, input.TrackingEnabled)
	if err != nil {
		lFunc.Errorf("could not update tracking of user '%s' in storage engine: %s", user.Username, err)
		return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}

	user.TrackingEnabled = input.TrackingEnabled
	lFunc.Infof("tracking of user '%s' set to %t", user.Username, input.TrackingEnabled)
	return user, nil
}

func (svc *UserServiceBackend) DeleteUser(ctx context.Context, input services.DeleteUserInput) error {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := userValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return errs.ErrValidateBadRequest
	}

	user, err := svc.selectModifiableUser(ctx, lFunc, input.ID)
	if err != nil {
		return err
	}

	err = svc.usersStorage.Delete(ctx, user.ID)
	if err != nil {
		lFunc.Errorf("could not delete user '%s' from storage engine: %s", user.Username, err)
		return fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}

	lFunc.Infof("user '%s' deleted", user.Username)
	return nil
}

// selectModifiableUser reads a user that is not an admin.
func (svc *UserServiceBackend) selectModifiableUser(ctx context.Context, lFunc *logrus.Entry, id int64) (*models.User, error) {
	exists, user, err := svc.usersStorage.SelectByID(ctx, id)
	if err != nil {
		lFunc.Errorf("something went wrong while reading user %d from storage engine: %s", id, err)
		return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	} else if !exists {
		lFunc.Errorf("user %d can not be found in storage engine", id)
		return nil, errs.ErrUserNotFound
	}

	if user.Role == models.UserRoleAdmin {
		lFunc.Errorf("user '%s' is an admin and can not be modified", user.Username)
		return nil, errs.ErrUserProtected
	}

	return user, nil
}
