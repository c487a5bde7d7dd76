package eventpub

import (
	"context"
	"fmt"

	lservices "github.com/geotrackio/geotrack/backend/pkg/services"
	"github.com/geotrackio/geotrack/core"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/services"
)

type locationEventPublisher struct {
	next       services.LocationService
	eventMWPub ICloudEventPublisher
}

func NewLocationEventPublisher(eventMWPub ICloudEventPublisher) lservices.LocationMiddleware {
	return func(next services.LocationService) services.LocationService {
		return &locationEventPublisher{
			next:       next,
			eventMWPub: NewEventPublisherWithSourceMiddleware(eventMWPub, models.LocationsSource),
		}
	}
}

func (mw *locationEventPublisher) IngestLocation(ctx context.Context, input services.IngestLocationInput) (output *models.Location, err error) {
	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventType, models.EventIngestLocationKey)
	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventSubject, fmt.Sprintf("user/%s", input.UserID))

	defer func() {
		if err == nil {
			mw.eventMWPub.PublishCloudEvent(ctx, output)
		}
	}()
	return mw.next.IngestLocation(ctx, input)
}

func (mw *locationEventPublisher) GetLatestLocations(ctx context.Context, input services.GetLatestLocationsInput) ([]models.Location, error) {
	return mw.next.GetLatestLocations(ctx, input)
}

func (mw *locationEventPublisher) GetActiveUsers(ctx context.Context, input services.GetActiveUsersInput) ([]models.ActiveUser, error) {
	return mw.next.GetActiveUsers(ctx, input)
}
