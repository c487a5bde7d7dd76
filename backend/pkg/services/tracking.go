package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/geotrackio/geotrack/backend/pkg/notify"
	"github.com/geotrackio/geotrack/backend/pkg/sessions"
	"github.com/geotrackio/geotrack/core/pkg/engines/storage"
	"github.com/geotrackio/geotrack/core/pkg/errs"
	chelpers "github.com/geotrackio/geotrack/core/pkg/helpers"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var trackingValidate *validator.Validate

type TrackingMiddleware func(services.TrackingService) services.TrackingService

// StreamPublisher fans events out to the live console subscribers.
type StreamPublisher interface {
	Publish(eventType models.StreamEventType, data any)
}

type TrackingMetrics interface {
	CommandEnqueued(action models.CommandAction)
	DevicesChanged(count int)
}

type noopTrackingMetrics struct{}

func (noopTrackingMetrics) CommandEnqueued(models.CommandAction) {}
func (noopTrackingMetrics) DevicesChanged(int)                   {}

// TrackingServiceBackend owns the device registry and the command queues.
// Both are only mutated while holding mu so that a command can never be
// queued for a device that is being removed.
type TrackingServiceBackend struct {
	mu       sync.Mutex
	registry *sessions.DeviceRegistry
	queue    *sessions.CommandQueue

	usersStorage   storage.UserRepo
	devicesStorage storage.DeviceRepo
	stream         StreamPublisher
	notifier       notify.CommandNotifier
	metrics        TrackingMetrics
	logger         *logrus.Entry
	now            func() time.Time
}

type TrackingServiceBuilder struct {
	Logger         *logrus.Entry
	UsersStorage   storage.UserRepo
	DevicesStorage storage.DeviceRepo
	Stream         StreamPublisher
	Notifier       notify.CommandNotifier
	Metrics        TrackingMetrics
	Clock          func() time.Time
}

func NewTrackingService(builder TrackingServiceBuilder) *TrackingServiceBackend {
	trackingValidate = validator.New()

	notifier := builder.Notifier
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}

	metrics := builder.Metrics
	if metrics == nil {
		metrics = noopTrackingMetrics{}
	}

	now := builder.Clock
	if now == nil {
		now = time.Now
	}

	svc := &TrackingServiceBackend{
		registry:       sessions.NewDeviceRegistry(sessions.WithClock(now)),
		queue:          sessions.NewCommandQueue(sessions.WithClock(now)),
		usersStorage:   builder.UsersStorage,
		devicesStorage: builder.DevicesStorage,
		stream:         builder.Stream,
		notifier:       notifier,
		metrics:        metrics,
		logger:         builder.Logger,
		now:            now,
	}

	return svc
}

func (svc *TrackingServiceBackend) RegisterDevice(ctx context.Context, input services.RegisterDeviceInput) (*models.DeviceSession, error) {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := trackingValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return nil, errs.ErrValidateBadRequest
	}

	lFunc.Debugf("checking if user '%s' exists", input.Username)
	exists, user, err := svc.usersStorage.SelectByUsername(ctx, input.Username)
	if err != nil {
		lFunc.Errorf("something went wrong while checking if user '%s' exists in storage engine: %s", input.Username, err)
		return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	} else if !exists {
		lFunc.Errorf("user '%s' can not be found in storage engine", input.Username)
		return nil, errs.ErrUserNotFound
	}

	svc.mu.Lock()
	session := svc.registry.Upsert(input.DeviceID, input.Username, input.UserAgent)
	count := svc.registry.Len()
	svc.mu.Unlock()

	svc.metrics.DevicesChanged(count)
	lFunc.Infof("device '%s' registered for user '%s'", input.DeviceID, input.Username)

	if svc.devicesStorage != nil {
		err = svc.devicesStorage.Upsert(ctx, &models.Device{
			DeviceID:  input.DeviceID,
			UserID:    user.ID,
			UserAgent: input.UserAgent,
			IsActive:  true,
			LastSeen:  session.LastSeen,
		})
		if err != nil {
			lFunc.Warnf("could not mirror device '%s' in storage engine: %s", input.DeviceID, err)
		}
	}

	svc.stream.Publish(models.StreamEventDeviceRegistered, models.DeviceRegisteredEvent{
		DeviceID:  session.DeviceID,
		Username:  session.OwnerUsername,
		Timestamp: session.LastSeen.UnixMilli(),
	})

	return &session, nil
}

func (svc *TrackingServiceBackend) IssueCommand(ctx context.Context, input services.IssueCommandInput) (*models.Command, error) {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := trackingValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return nil, errs.ErrValidateBadRequest
	}

	deviceCmd, err := models.NewDeviceCommand(input.Action, input.Interval)
	if err != nil {
		lFunc.Errorf("invalid command for device '%s': %s", input.DeviceID, err)
		return nil, errs.ErrValidateBadRequest
	}

	svc.mu.Lock()
	if !svc.registry.Exists(input.DeviceID) {
		svc.mu.Unlock()
		lFunc.Errorf("device '%s' has no live session", input.DeviceID)
		return nil, errs.ErrDeviceNotFound
	}

	command, err := svc.enqueue(input.DeviceID, deviceCmd)
	svc.mu.Unlock()
	if err != nil {
		lFunc.Errorf("could not queue %s command for device '%s': %s", input.Action, input.DeviceID, err)
		return nil, err
	}

	lFunc.Infof("command %s (%s) queued for device '%s'", command.ID, command.Action, input.DeviceID)
	svc.push(ctx, lFunc, input.DeviceID, command)

	return &command, nil
}

func (svc *TrackingServiceBackend) BroadcastCommand(ctx context.Context, input services.BroadcastCommandInput) (int, error) {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := trackingValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return 0, errs.ErrValidateBadRequest
	}

	if input.Action == models.CommandCleanupDevices {
		return svc.cleanupDevices(ctx, lFunc), nil
	}

	deviceCmd, err := models.NewDeviceCommand(input.Action, input.Interval)
	if err != nil {
		lFunc.Errorf("invalid broadcast command: %s", err)
		return 0, errs.ErrValidateBadRequest
	}

	type queued struct {
		deviceID string
		command  models.Command
	}

	svc.mu.Lock()
	targets := svc.registry.List()
	sent := make([]queued, 0, len(targets))
	for _, target := range targets {
		command, err := svc.enqueue(target.DeviceID, deviceCmd)
		if err != nil {
			svc.mu.Unlock()
			lFunc.Errorf("could not queue %s command for device '%s': %s", input.Action, target.DeviceID, err)
			return len(sent), err
		}
		sent = append(sent, queued{deviceID: target.DeviceID, command: command})
	}
	svc.mu.Unlock()

	lFunc.Infof("broadcast command %s sent to %d devices", input.Action, len(sent))
	for _, q := range sent {
		svc.push(ctx, lFunc, q.deviceID, q.command)
	}

	return len(sent), nil
}

func (svc *TrackingServiceBackend) RemoveDevice(ctx context.Context, input services.RemoveDeviceInput) error {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := trackingValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return errs.ErrValidateBadRequest
	}

	svc.mu.Lock()
	if !svc.registry.Remove(input.DeviceID) {
		svc.mu.Unlock()
		lFunc.Errorf("device '%s' has no live session", input.DeviceID)
		return errs.ErrDeviceNotFound
	}
	purged := svc.queue.Purge(input.DeviceID)
	count := svc.registry.Len()
	svc.mu.Unlock()

	svc.metrics.DevicesChanged(count)
	lFunc.Infof("device '%s' removed. %d pending commands discarded", input.DeviceID, purged)

	svc.deactivate(ctx, lFunc, input.DeviceID)
	svc.stream.Publish(models.StreamEventDeviceRemoved, models.DeviceRemovedEvent{
		DeviceID:  input.DeviceID,
		Timestamp: svc.now().UnixMilli(),
	})

	return nil
}

func (svc *TrackingServiceBackend) AcknowledgeCommand(ctx context.Context, input services.AcknowledgeCommandInput) (bool, error) {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := trackingValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return false, errs.ErrValidateBadRequest
	}

	svc.mu.Lock()
	acked := svc.queue.Acknowledge(input.DeviceID, input.CommandID)
	svc.mu.Unlock()

	if acked {
		lFunc.Infof("command %s acknowledged by device '%s'", input.CommandID, input.DeviceID)
	} else {
		lFunc.Debugf("command %s is not pending for device '%s'", input.CommandID, input.DeviceID)
	}

	return acked, nil
}

func (svc *TrackingServiceBackend) PollCommands(ctx context.Context, input services.PollCommandsInput) ([]models.Command, error) {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := trackingValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return nil, errs.ErrValidateBadRequest
	}

	svc.mu.Lock()
	live := svc.registry.Touch(input.DeviceID)
	pending := svc.queue.Pending(input.DeviceID)
	svc.mu.Unlock()

	if !live {
		lFunc.Debugf("device '%s' polled commands without a live session", input.DeviceID)
	}

	if svc.devicesStorage != nil {
		if err := svc.devicesStorage.TouchLastSeen(ctx, input.DeviceID, svc.now()); err != nil {
			lFunc.Warnf("could not refresh last seen of device '%s' in storage engine: %s", input.DeviceID, err)
		}
	}

	lFunc.Tracef("device '%s' has %d pending commands", input.DeviceID, len(pending))
	return pending, nil
}

func (svc *TrackingServiceBackend) GetDevices(ctx context.Context) ([]models.DeviceSession, error) {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	svc.mu.Lock()
	devices := svc.registry.List()
	svc.mu.Unlock()

	lFunc.Debugf("%d devices with a live session", len(devices))
	return devices, nil
}

func (svc *TrackingServiceBackend) GetDeviceByID(ctx context.Context, input services.GetDeviceByIDInput) (*models.DeviceSession, error) {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := trackingValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return nil, errs.ErrValidateBadRequest
	}

	svc.mu.Lock()
	session, ok := svc.registry.Get(input.DeviceID)
	svc.mu.Unlock()

	if !ok {
		lFunc.Debugf("device '%s' has no live session", input.DeviceID)
		return nil, errs.ErrDeviceNotFound
	}

	return &session, nil
}

// TouchDevice refreshes the liveness of a device after it reported a
// location. Unknown devices are ignored.
func (svc *TrackingServiceBackend) TouchDevice(deviceID string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	return svc.registry.Touch(deviceID)
}

// enqueue must be called with mu held.
func (svc *TrackingServiceBackend) enqueue(deviceID string, cmd models.DeviceCommand) (models.Command, error) {
	command, err := svc.queue.Enqueue(deviceID, cmd)
	if err != nil {
		return models.Command{}, err
	}

	switch cmd.(type) {
	case models.StartTracking:
		svc.registry.SetTracking(deviceID, true)
	case models.StopTracking:
		svc.registry.SetTracking(deviceID, false)
	case models.UpdateInterval:
		// the device applies the new interval itself
	default:
		panic(fmt.Sprintf("unhandled device command %T", cmd))
	}

	svc.metrics.CommandEnqueued(command.Action)
	return command, nil
}

func (svc *TrackingServiceBackend) cleanupDevices(ctx context.Context, lFunc *logrus.Entry) int {
	svc.mu.Lock()
	removed := svc.registry.List()
	count := svc.registry.Clear()
	purged := svc.queue.PurgeAll()
	svc.mu.Unlock()

	svc.metrics.DevicesChanged(0)
	lFunc.Infof("cleanup removed %d devices and discarded %d pending commands", count, purged)

	now := svc.now().UnixMilli()
	for _, device := range removed {
		svc.deactivate(ctx, lFunc, device.DeviceID)
		svc.stream.Publish(models.StreamEventDeviceRemoved, models.DeviceRemovedEvent{
			DeviceID:  device.DeviceID,
			Timestamp: now,
		})
	}

	return count
}

func (svc *TrackingServiceBackend) deactivate(ctx context.Context, lFunc *logrus.Entry, deviceID string) {
	if svc.devicesStorage == nil {
		return
	}

	if err := svc.devicesStorage.Deactivate(ctx, deviceID); err != nil {
		lFunc.Warnf("could not deactivate device '%s' in storage engine: %s", deviceID, err)
	}
}

func (svc *TrackingServiceBackend) push(ctx context.Context, lFunc *logrus.Entry, deviceID string, command models.Command) {
	if err := svc.notifier.NotifyCommand(ctx, deviceID, command); err != nil {
		lFunc.Warnf("could not push command %s to device '%s'. The device will get it on its next poll: %s", command.ID, deviceID, err)
	}
}
