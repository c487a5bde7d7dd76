package eventpub

import (
	"context"
	"fmt"

	lservices "github.com/geotrackio/geotrack/backend/pkg/services"
	"github.com/geotrackio/geotrack/core"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/services"
)

type userEventPublisher struct {
	next       services.UserService
	eventMWPub ICloudEventPublisher
}

func NewUserEventPublisher(eventMWPub ICloudEventPublisher) lservices.UserMiddleware {
	return func(next services.UserService) services.UserService {
		return &userEventPublisher{
			next:       next,
			eventMWPub: NewEventPublisherWithSourceMiddleware(eventMWPub, models.UsersSource),
		}
	}
}

func (mw *userEventPublisher) GetUsers(ctx context.Context) ([]models.User, error) {
	return mw.next.GetUsers(ctx)
}

func (mw *userEventPublisher) CreateUser(ctx context.Context, input services.CreateUserInput) (output *models.User, err error) {
	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventType, models.EventCreateUserKey)
	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventSubject, fmt.Sprintf("user/%s", input.Username))

	defer func() {
		if err == nil {
			mw.eventMWPub.PublishCloudEvent(ctx, output)
		}
	}()
	return mw.next.CreateUser(ctx, input)
}

func (mw *userEventPublisher) GetUserDetails(ctx context.Context, input services.GetUserDetailsInput) (*models.UserDetails, error) {
	return mw.next.GetUserDetails(ctx, input)
}

func (mw *userEventPublisher) GetTrackingStatus(ctx context.Context, input services.GetTrackingStatusInput) (*models.TrackingStatus, error) {
	return mw.next.GetTrackingStatus(ctx, input)
}

func (mw *userEventPublisher) UpdateUserTracking(ctx context.Context, input services.UpdateUserTrackingInput) (output *models.User, err error) {
	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventType, models.EventUpdateUserTrackingKey)
	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventSubject, fmt.Sprintf("user/%d", input.ID))

	defer func() {
		if err == nil {
			mw.eventMWPub.PublishCloudEvent(ctx, output)
		}
	}()
	return mw.next.UpdateUserTracking(ctx, input)
}

func (mw *userEventPublisher) DeleteUser(ctx context.Context, input services.DeleteUserInput) (err error) {
	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventType, models.EventDeleteUserKey)
	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventSubject, fmt.Sprintf("user/%d", input.ID))

	defer func() {
		if err == nil {
			mw.eventMWPub.PublishCloudEvent(ctx, models.UserDeletedEvent{ID: input.ID})
		}
	}()
	return mw.next.DeleteUser(ctx, input)
}
