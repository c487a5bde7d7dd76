package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/geotrackio/geotrack/core"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/jakehl/goid"
)

func BuildCloudEvent(ctx context.Context, payload interface{}) event.Event {
	event := cloudevents.NewEvent()

	event.SetSpecVersion("1.0")
	event.SetTime(time.Now())
	event.SetID(goid.NewV4UUID().String())
	event.SetData(cloudevents.ApplicationJSON, payload)

	if eventSource, ok := ctx.Value(core.GeotrackContextKeySource).(string); ok {
		event.SetSource(eventSource)
	} else {
		event.SetSource("source://unknown")
	}

	if eventType, ok := ctx.Value(core.GeotrackContextKeyEventType).(string); ok {
		event.SetType(eventType)
	} else if typedEventType, ok := ctx.Value(core.GeotrackContextKeyEventType).(models.EventType); ok {
		event.SetType(string(typedEventType))
	}

	if eventSubject, ok := ctx.Value(core.GeotrackContextKeyEventSubject).(string); ok {
		event.SetSubject(eventSubject)
	}

	if actorRole, ok := ctx.Value(core.GeotrackContextKeyActorRole).(string); ok && actorRole != "" {
		event.SetExtension("actorrole", actorRole)
	}

	if actorID, ok := ctx.Value(core.GeotrackContextKeyActorID).(string); ok && actorID != "" {
		event.SetExtension("actorid", actorID)
	}

	return event
}

func ParseCloudEvent(msg []byte) (*event.Event, error) {
	var event cloudevents.Event
	err := json.Unmarshal(msg, &event)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func GetEventBody[E any](cloudEvent *event.Event) (*E, error) {
	var elem *E
	if cloudEvent == nil {
		return nil, fmt.Errorf("cloud event is null")
	}

	if cloudEvent.Data() == nil {
		return nil, fmt.Errorf("cloud event data is null")
	}

	err := json.Unmarshal(cloudEvent.Data(), &elem)
	return elem, err
}
