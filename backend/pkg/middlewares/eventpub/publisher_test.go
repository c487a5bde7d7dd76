package eventpub

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/geotrackio/geotrack/core"
	"github.com/geotrackio/geotrack/core/pkg/helpers"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type CloudEventPublisherMock struct {
	mock.Mock
}

func (m *CloudEventPublisherMock) PublishCloudEvent(ctx context.Context, payload interface{}) {
	m.Called(ctx, payload)
}

type recordingPublisher struct {
	topics   []string
	messages []*message.Message
	err      error
}

func (p *recordingPublisher) Publish(topic string, messages ...*message.Message) error {
	p.topics = append(p.topics, topic)
	p.messages = append(p.messages, messages...)
	return p.err
}

func (p *recordingPublisher) Close() error {
	return nil
}

func eventTypeIs(eventType models.EventType) interface{} {
	return mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Value(core.GeotrackContextKeyEventType) == eventType
	})
}

func TestCloudEventPublisher(t *testing.T) {
	pub := &recordingPublisher{}
	cemp := &CloudEventPublisher{
		Publisher: pub,
		ServiceID: "tracking",
		Logger:    logrus.New().WithField("subsystem", "Event Bus"),
	}

	ctx := context.WithValue(context.Background(), core.GeotrackContextKeyEventType, models.EventRemoveDeviceKey)
	ctx = context.WithValue(ctx, core.GeotrackContextKeyEventSubject, "device/d1")
	ctx = context.WithValue(ctx, core.GeotrackContextKeySource, models.TrackingSource)

	cemp.PublishCloudEvent(ctx, models.DeviceRemovedEvent{DeviceID: "d1"})

	require.Len(t, pub.messages, 1)
	assert.Equal(t, []string{string(models.EventRemoveDeviceKey)}, pub.topics)

	event, err := helpers.ParseCloudEvent(pub.messages[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, string(models.EventRemoveDeviceKey), event.Type())
	assert.Equal(t, "device/d1", event.Subject())
	assert.Equal(t, "geotrack/tracking", event.Source())
	assert.Equal(t, pub.messages[0].UUID, event.ID())

	var body models.DeviceRemovedEvent
	require.NoError(t, json.Unmarshal(event.Data(), &body))
	assert.Equal(t, "d1", body.DeviceID)
}

func TestCloudEventPublisherLogsPublishErrors(t *testing.T) {
	logger, hook := test.NewNullLogger()
	cemp := &CloudEventPublisher{
		Publisher: &recordingPublisher{err: errors.New("channel closed")},
		Logger:    logger.WithField("subsystem", "Event Bus"),
	}

	assert.NotPanics(t, func() {
		cemp.PublishCloudEvent(context.Background(), map[string]string{"k": "v"})
	})
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestEventPublisherWithSourceMiddleware(t *testing.T) {
	inner := new(CloudEventPublisherMock)
	inner.On("PublishCloudEvent", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Value(core.GeotrackContextKeySource) == "geotrack/test"
	}), mock.Anything).Once()
	inner.On("PublishCloudEvent", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Value(core.GeotrackContextKeySource) == "geotrack/caller"
	}), mock.Anything).Once()

	mw := NewEventPublisherWithSourceMiddleware(inner, "geotrack/test")
	mw.PublishCloudEvent(context.Background(), nil)
	mw.PublishCloudEvent(context.WithValue(context.Background(), core.GeotrackContextKeySource, "geotrack/caller"), nil)

	inner.AssertExpectations(t)
}
