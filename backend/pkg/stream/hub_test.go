package stream

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubscriber struct {
	mu     sync.Mutex
	events []models.StreamEvent
	failOn func(models.StreamEvent) bool
	done   chan struct{}
	calls  int
}

func newRecordingSubscriber() *recordingSubscriber {
	return &recordingSubscriber{done: make(chan struct{})}
}

func newFailingSubscriber(failOn func(models.StreamEvent) bool) *recordingSubscriber {
	sub := newRecordingSubscriber()
	sub.failOn = failOn
	return sub
}

func (s *recordingSubscriber) Deliver(event models.StreamEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.failOn != nil && s.failOn(event) {
		return errors.New("broken pipe")
	}

	s.events = append(s.events, event)
	return nil
}

func (s *recordingSubscriber) Done() <-chan struct{} {
	return s.done
}

func (s *recordingSubscriber) Events() []models.StreamEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]models.StreamEvent, len(s.events))
	copy(events, s.events)
	return events
}

func (s *recordingSubscriber) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

type countingObserver struct {
	mu          sync.Mutex
	subscribers int
	published   map[models.StreamEventType]int
	evictions   int
}

func (o *countingObserver) SubscribersChanged(count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subscribers = count
}

func (o *countingObserver) EventPublished(eventType models.StreamEventType) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.published == nil {
		o.published = map[models.StreamEventType]int{}
	}
	o.published[eventType]++
}

func (o *countingObserver) SubscriberEvicted() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.evictions++
}

func newTestHub(observer Observer) *Hub {
	return NewHub(HubBuilder{
		Logger:   logrus.New().WithField("subsystem", "Stream"),
		Observer: observer,
	})
}

func eventTypes(events []models.StreamEvent) []models.StreamEventType {
	types := make([]models.StreamEventType, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	return types
}

func TestSubscribeSendsConnectedFirst(t *testing.T) {
	hub := newTestHub(nil)
	sub := newRecordingSubscriber()

	_, err := hub.Subscribe(sub)
	require.NoError(t, err)

	hub.Publish(models.StreamEventDeviceRegistered, models.DeviceRegisteredEvent{DeviceID: "d1"})

	events := sub.Events()
	require.Len(t, events, 2)
	assert.Equal(t, models.StreamEventConnected, events[0].Type)
	assert.Equal(t, models.StreamEventDeviceRegistered, events[1].Type)
	assert.Equal(t, 1, hub.SubscriberCount())
}

func TestSubscribeFailingConnectedIsNotRegistered(t *testing.T) {
	hub := newTestHub(nil)
	sub := newFailingSubscriber(func(models.StreamEvent) bool { return true })

	_, err := hub.Subscribe(sub)
	assert.Error(t, err)
	assert.Equal(t, 0, hub.SubscriberCount())
}

func TestPublishEvictsFailingSubscriberOnly(t *testing.T) {
	observer := &countingObserver{}
	hub := newTestHub(observer)

	healthy := newRecordingSubscriber()
	broken := newFailingSubscriber(func(ev models.StreamEvent) bool {
		return ev.Type != models.StreamEventConnected
	})

	_, err := hub.Subscribe(healthy)
	require.NoError(t, err)
	_, err = hub.Subscribe(broken)
	require.NoError(t, err)
	require.Equal(t, 2, hub.SubscriberCount())

	payload := map[string]float64{"latitude": 6.2}
	hub.Publish(models.StreamEventLocationUpdate, payload)

	assert.Equal(t, 1, hub.SubscriberCount())
	events := healthy.Events()
	require.Len(t, events, 2)
	assert.Equal(t, payload, events[1].Data)

	brokenCalls := broken.Calls()
	hub.Publish(models.StreamEventLocationUpdate, payload)
	assert.Equal(t, brokenCalls, broken.Calls())
	assert.Len(t, healthy.Events(), 3)

	observer.mu.Lock()
	defer observer.mu.Unlock()
	assert.Equal(t, 1, observer.evictions)
	assert.Equal(t, 1, observer.subscribers)
	assert.Equal(t, 2, observer.published[models.StreamEventLocationUpdate])
}

func TestPublishWithoutSubscribers(t *testing.T) {
	hub := newTestHub(nil)
	assert.NotPanics(t, func() {
		hub.Publish(models.StreamEventDeviceRemoved, nil)
		hub.SendHeartbeat()
	})
}

func TestHeartbeatEvictsDeadSubscriber(t *testing.T) {
	hub := newTestHub(nil)

	healthy := newRecordingSubscriber()
	dead := newFailingSubscriber(func(ev models.StreamEvent) bool {
		return ev.Type == models.StreamEventHeartbeat
	})

	_, err := hub.Subscribe(healthy)
	require.NoError(t, err)
	_, err = hub.Subscribe(dead)
	require.NoError(t, err)

	hub.SendHeartbeat()

	assert.Equal(t, 1, hub.SubscriberCount())
	assert.Equal(t, []models.StreamEventType{models.StreamEventConnected, models.StreamEventHeartbeat}, eventTypes(healthy.Events()))
}

func TestUnsubscribe(t *testing.T) {
	hub := newTestHub(nil)
	sub := newRecordingSubscriber()

	handle, err := hub.Subscribe(sub)
	require.NoError(t, err)

	handle.Unsubscribe()
	handle.Unsubscribe()
	assert.Equal(t, 0, hub.SubscriberCount())

	hub.Publish(models.StreamEventDeviceRemoved, nil)
	assert.Len(t, sub.Events(), 1)
}

func TestSubscriberRemovedWhenDone(t *testing.T) {
	hub := newTestHub(nil)
	sub := newRecordingSubscriber()

	_, err := hub.Subscribe(sub)
	require.NoError(t, err)

	close(sub.done)

	assert.Eventually(t, func() bool {
		return hub.SubscriberCount() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestPublishPreservesOrderPerSubscriber(t *testing.T) {
	hub := newTestHub(nil)
	sub := newRecordingSubscriber()

	_, err := hub.Subscribe(sub)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		hub.Publish(models.StreamEventLocationUpdate, i)
	}

	events := sub.Events()
	require.Len(t, events, 21)
	for i := 0; i < 20; i++ {
		assert.Equal(t, i, events[i+1].Data)
	}
}

func TestConcurrentSubscribeAndPublish(t *testing.T) {
	hub := newTestHub(nil)

	var wg sync.WaitGroup
	subs := make([]*recordingSubscriber, 20)
	for i := range subs {
		subs[i] = newRecordingSubscriber()
	}

	for i := range subs {
		wg.Add(2)
		go func(sub *recordingSubscriber) {
			defer wg.Done()
			handle, err := hub.Subscribe(sub)
			if assert.NoError(t, err) {
				handle.Unsubscribe()
			}
		}(subs[i])
		go func() {
			defer wg.Done()
			hub.Publish(models.StreamEventLocationUpdate, nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, hub.SubscriberCount())
	for _, sub := range subs {
		events := sub.Events()
		require.NotEmpty(t, events)
		assert.Equal(t, models.StreamEventConnected, events[0].Type)
	}
}

func TestCloseRejectsNewSubscribers(t *testing.T) {
	hub := newTestHub(nil)
	_, err := hub.Subscribe(newRecordingSubscriber())
	require.NoError(t, err)

	hub.Close()
	assert.Equal(t, 0, hub.SubscriberCount())

	_, err = hub.Subscribe(newRecordingSubscriber())
	assert.ErrorIs(t, err, ErrHubClosed)
}

func TestCloseDuringSubscribeRejectsSubscriber(t *testing.T) {
	hub := newTestHub(nil)
	sub := newFailingSubscriber(func(ev models.StreamEvent) bool {
		hub.Close()
		return false
	})

	_, err := hub.Subscribe(sub)
	assert.ErrorIs(t, err, ErrHubClosed)
	assert.Equal(t, 0, hub.SubscriberCount())
}

func TestSubscriptionDoneClosedOnRemoval(t *testing.T) {
	hub := newTestHub(nil)

	unsubscribed, err := hub.Subscribe(newRecordingSubscriber())
	require.NoError(t, err)
	closedByHub, err := hub.Subscribe(newRecordingSubscriber())
	require.NoError(t, err)

	select {
	case <-closedByHub.Done():
		t.Fatal("subscription done before removal")
	default:
	}

	unsubscribed.Unsubscribe()
	select {
	case <-unsubscribed.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription not done after unsubscribe")
	}

	hub.Close()
	select {
	case <-closedByHub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription not done after hub close")
	}
}

func TestEventTimestamp(t *testing.T) {
	hub := newTestHub(nil)
	fixed := time.UnixMilli(1700000000000)
	hub.now = func() time.Time { return fixed }

	sub := newRecordingSubscriber()
	_, err := hub.Subscribe(sub)
	require.NoError(t, err)

	hub.SendHeartbeat()
	for _, ev := range sub.Events() {
		assert.Equal(t, int64(1700000000000), ev.Timestamp)
	}
}
