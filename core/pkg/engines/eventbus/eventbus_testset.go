package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type EventBusTestInput struct {
	SetupEventBus func() (func() error, message.Publisher, func(serviceID string) message.Subscriber)
}

// TestPublishSubscribe is shared by the event bus engines: a message published
// on a topic is delivered to a subscriber of that topic with its payload intact.
func TestPublishSubscribe(t *testing.T, input EventBusTestInput) {
	cleanup, pub, subFunc := input.SetupEventBus()
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	sub := subFunc("geotrack-test")
	messages, err := sub.Subscribe(ctx, "device.register")
	require.NoError(t, err)

	// some brokers bind the queue asynchronously
	time.Sleep(500 * time.Millisecond)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"device_id":"d1"}`))
	require.NoError(t, pub.Publish("device.register", msg))

	select {
	case received := <-messages:
		assert.Equal(t, msg.UUID, received.UUID)
		assert.JSONEq(t, `{"device_id":"d1"}`, string(received.Payload))
		received.Ack()
	case <-ctx.Done():
		t.Fatalf("message not received before timeout")
	}
}

// TestMultiServiceSubscribe checks that every service subscribed to a topic
// gets its own copy of a published message.
func TestMultiServiceSubscribe(t *testing.T, input EventBusTestInput) {
	cleanup, pub, subFunc := input.SetupEventBus()
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	services := []string{"geotrack-audit", "geotrack-notifier"}
	channels := make([]<-chan *message.Message, 0, len(services))
	for _, serviceID := range services {
		messages, err := subFunc(serviceID).Subscribe(ctx, "location.ingest")
		require.NoError(t, err)
		channels = append(channels, messages)
	}

	time.Sleep(500 * time.Millisecond)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"user_id":"1"}`))
	require.NoError(t, pub.Publish("location.ingest", msg))

	for i, messages := range channels {
		select {
		case received := <-messages:
			assert.Equal(t, msg.UUID, received.UUID, services[i])
			received.Ack()
		case <-ctx.Done():
			t.Fatalf("service %s did not receive the message", services[i])
		}
	}
}
