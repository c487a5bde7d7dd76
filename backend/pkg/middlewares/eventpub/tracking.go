package eventpub

import (
	"context"
	"fmt"

	lservices "github.com/geotrackio/geotrack/backend/pkg/services"
	"github.com/geotrackio/geotrack/core"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/services"
)

type trackingEventPublisher struct {
	next       services.TrackingService
	eventMWPub ICloudEventPublisher
}

func NewTrackingEventPublisher(eventMWPub ICloudEventPublisher) lservices.TrackingMiddleware {
	return func(next services.TrackingService) services.TrackingService {
		return &trackingEventPublisher{
			next:       next,
			eventMWPub: NewEventPublisherWithSourceMiddleware(eventMWPub, models.TrackingSource),
		}
	}
}

func (mw *trackingEventPublisher) RegisterDevice(ctx context.Context, input services.RegisterDeviceInput) (output *models.DeviceSession, err error) {
	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventType, models.EventRegisterDeviceKey)
	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventSubject, fmt.Sprintf("device/%s", input.DeviceID))

	defer func() {
		if err == nil {
			mw.eventMWPub.PublishCloudEvent(ctx, output)
		}
	}()
	return mw.next.RegisterDevice(ctx, input)
}

func (mw *trackingEventPublisher) IssueCommand(ctx context.Context, input services.IssueCommandInput) (output *models.Command, err error) {
	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventType, models.EventIssueCommandKey)
	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventSubject, fmt.Sprintf("device/%s", input.DeviceID))

	defer func() {
		if err == nil && output != nil {
			mw.eventMWPub.PublishCloudEvent(ctx, models.CommandIssuedEvent{
				DeviceID: input.DeviceID,
				Command:  *output,
			})
		}
	}()
	return mw.next.IssueCommand(ctx, input)
}

func (mw *trackingEventPublisher) BroadcastCommand(ctx context.Context, input services.BroadcastCommandInput) (output int, err error) {
	eventType := models.EventBroadcastCommandKey
	if input.Action == models.CommandCleanupDevices {
		eventType = models.EventCleanupDevicesKey
	}

	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventType, eventType)
	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventSubject, "devices")

	defer func() {
		if err == nil {
			mw.eventMWPub.PublishCloudEvent(ctx, models.CommandBroadcastEvent{
				Action:       input.Action,
				DevicesCount: output,
			})
		}
	}()
	return mw.next.BroadcastCommand(ctx, input)
}

func (mw *trackingEventPublisher) RemoveDevice(ctx context.Context, input services.RemoveDeviceInput) (err error) {
	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventType, models.EventRemoveDeviceKey)
	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventSubject, fmt.Sprintf("device/%s", input.DeviceID))

	defer func() {
		if err == nil {
			mw.eventMWPub.PublishCloudEvent(ctx, models.DeviceRemovedEvent{
				DeviceID: input.DeviceID,
			})
		}
	}()
	return mw.next.RemoveDevice(ctx, input)
}

func (mw *trackingEventPublisher) AcknowledgeCommand(ctx context.Context, input services.AcknowledgeCommandInput) (bool, error) {
	return mw.next.AcknowledgeCommand(ctx, input)
}

func (mw *trackingEventPublisher) PollCommands(ctx context.Context, input services.PollCommandsInput) ([]models.Command, error) {
	return mw.next.PollCommands(ctx, input)
}

func (mw *trackingEventPublisher) GetDevices(ctx context.Context) ([]models.DeviceSession, error) {
	return mw.next.GetDevices(ctx)
}

func (mw *trackingEventPublisher) GetDeviceByID(ctx context.Context, input services.GetDeviceByIDInput) (*models.DeviceSession, error) {
	return mw.next.GetDeviceByID(ctx, input)
}
