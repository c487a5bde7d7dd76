package stream

import (
	"errors"
	"sync"
	"time"

	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/sirupsen/logrus"
)

// Subscriber is a live connection receiving stream events. Deliver must not
// block indefinitely: a write that cannot complete should fail so the hub
// can evict the subscriber. Done is closed when the connection goes away.
type Subscriber interface {
	Deliver(event models.StreamEvent) error
	Done() <-chan struct{}
}

// Observer is notified of hub activity. It is used to feed metrics.
type Observer interface {
	SubscribersChanged(count int)
	EventPublished(eventType models.StreamEventType)
	SubscriberEvicted()
}

type noopObserver struct{}

func (noopObserver) SubscribersChanged(int)                {}
func (noopObserver) EventPublished(models.StreamEventType) {}
func (noopObserver) SubscriberEvicted()                    {}

var ErrHubClosed = errors.New("event stream hub closed")

type subscription struct {
	id         uint64
	subscriber Subscriber
	removed    chan struct{}
}

// Hub fans stream events out to every live subscriber. Deliveries are
// serialized so each subscriber sees events in publish order, and a
// subscriber whose delivery fails is evicted without affecting the rest.
type Hub struct {
	deliveryMu sync.Mutex

	mu          sync.RWMutex
	subscribers map[uint64]*subscription
	nextID      uint64
	closed      bool

	logger   *logrus.Entry
	observer Observer
	now      func() time.Time
}

type HubBuilder struct {
	Logger   *logrus.Entry
	Observer Observer
}

func NewHub(builder HubBuilder) *Hub {
	observer := builder.Observer
	if observer == nil {
		observer = noopObserver{}
	}

	return &Hub{
		subscribers: map[uint64]*subscription{},
		logger:      builder.Logger,
		observer:    observer,
		now:         time.Now,
	}
}

// Subscription identifies a registered subscriber.
type Subscription struct {
	id      uint64
	hub     *Hub
	removed <-chan struct{}
}

// Done is closed once the subscriber has been removed from the hub, whether
// it unsubscribed, was evicted or the hub was closed.
func (s Subscription) Done() <-chan struct{} {
	return s.removed
}

// Unsubscribe removes the subscriber from the hub. It is safe to call more
// than once.
func (s Subscription) Unsubscribe() {
	s.hub.remove(s.id, false)
}

// Subscribe sends the connected event to the subscriber and registers it.
// The connected event always precedes any broadcast. The subscriber is
// removed automatically once its Done channel is closed.
func (h *Hub) Subscribe(subscriber Subscriber) (Subscription, error) {
	h.deliveryMu.Lock()
	defer h.deliveryMu.Unlock()

	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		return Subscription{}, ErrHubClosed
	}

	connected := h.newEvent(models.StreamEventConnected, map[string]string{"message": "connected to event stream"})
	if err := subscriber.Deliver(connected); err != nil {
		h.logger.Warnf("could not deliver connected event to new subscriber: %s", err)
		return Subscription{}, err
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return Subscription{}, ErrHubClosed
	}
	h.nextID++
	sub := &subscription{
		id:         h.nextID,
		subscriber: subscriber,
		removed:    make(chan struct{}),
	}
	h.subscribers[sub.id] = sub
	count := len(h.subscribers)
	h.mu.Unlock()

	h.observer.SubscribersChanged(count)
	h.logger.Debugf("subscriber %d connected. Total subscribers: %d", sub.id, count)

	go func() {
		select {
		case <-subscriber.Done():
			h.remove(sub.id, false)
		case <-sub.removed:
		}
	}()

	return Subscription{id: sub.id, hub: h, removed: sub.removed}, nil
}

// Publish delivers an event to every subscriber registered at call time.
// Delivery failures evict the failing subscriber and are never returned.
func (h *Hub) Publish(eventType models.StreamEventType, data any) {
	h.broadcast(h.newEvent(eventType, data))
}

// SendHeartbeat writes a heartbeat event to every subscriber, evicting
// those that can no longer be written to.
func (h *Hub) SendHeartbeat() {
	h.broadcast(h.newEvent(models.StreamEventHeartbeat, nil))
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers)
}

// Close evicts every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	ids := make([]uint64, 0, len(h.subscribers))
	for id := range h.subscribers {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		h.remove(id, false)
	}
}

func (h *Hub) newEvent(eventType models.StreamEventType, data any) models.StreamEvent {
	return models.StreamEvent{
		Type:      eventType,
		Data:      data,
		Timestamp: h.now().UnixMilli(),
	}
}

func (h *Hub) broadcast(event models.StreamEvent) {
	h.deliveryMu.Lock()
	defer h.deliveryMu.Unlock()

	h.mu.RLock()
	snapshot := make([]*subscription, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		snapshot = append(snapshot, sub)
	}
	h.mu.RUnlock()

	h.observer.EventPublished(event.Type)

	for _, sub := range snapshot {
		select {
		case <-sub.removed:
			continue
		default:
		}

		if err := sub.subscriber.Deliver(event); err != nil {
			h.logger.Warnf("evicting subscriber %d after failed %s delivery: %s", sub.id, event.Type, err)
			h.remove(sub.id, true)
		}
	}

	h.logger.Tracef("%s event delivered to %d subscribers", event.Type, len(snapshot))
}

func (h *Hub) remove(id uint64, evicted bool) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if !ok {
		h.mu.Unlock()
		return
	}

	delete(h.subscribers, id)
	close(sub.removed)
	count := len(h.subscribers)
	h.mu.Unlock()

	if evicted {
		h.observer.SubscriberEvicted()
	}

	h.observer.SubscribersChanged(count)
	h.logger.Debugf("subscriber %d disconnected. Total subscribers: %d", id, count)
}
