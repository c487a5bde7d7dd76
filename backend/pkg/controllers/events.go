package controllers

import (
	"bytes"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/geotrackio/geotrack/backend/pkg/stream"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var errSubscriberClosed = errors.New("event stream connection closed")

type EventStream interface {
	Subscribe(subscriber stream.Subscriber) (stream.Subscription, error)
}

type eventsHttpRoutes struct {
	hub          EventStream
	writeTimeout time.Duration
	logger       *logrus.Entry
}

func NewEventsHttpRoutes(hub EventStream, writeTimeout time.Duration, logger *logrus.Entry) *eventsHttpRoutes {
	return &eventsHttpRoutes{
		hub:          hub,
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// sseSubscriber writes stream events to a single HTTP response. Every write
// is bounded by writeTimeout so a stalled client fails its delivery.
type sseSubscriber struct {
	mu           sync.Mutex
	closed       bool
	writer       gin.ResponseWriter
	controller   *http.ResponseController
	writeTimeout time.Duration

	done       <-chan struct{}
	failed     chan struct{}
	failedOnce sync.Once
}

func newSSESubscriber(ctx *gin.Context, writeTimeout time.Duration) *sseSubscriber {
	return &sseSubscriber{
		writer:       ctx.Writer,
		controller:   http.NewResponseController(ctx.Writer),
		writeTimeout: writeTimeout,
		done:         ctx.Request.Context().Done(),
		failed:       make(chan struct{}),
	}
}

func (s *sseSubscriber) Deliver(event models.StreamEvent) error {
	frame := sse.Event{Data: event}
	if event.Type == models.StreamEventHeartbeat {
		frame.Event = string(models.StreamEventHeartbeat)
	}

	var buf bytes.Buffer
	if err := sse.Encode(&buf, frame); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errSubscriberClosed
	}

	if s.writeTimeout > 0 {
		err := s.controller.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		if err != nil && !errors.Is(err, http.ErrNotSupported) {
			s.fail()
			return err
		}
	}

	if _, err := s.writer.Write(buf.Bytes()); err != nil {
		s.fail()
		return err
	}

	if err := s.controller.Flush(); err != nil {
		s.fail()
		return err
	}

	return nil
}

func (s *sseSubscriber) Done() <-chan struct{} {
	return s.done
}

func (s *sseSubscriber) fail() {
	s.failedOnce.Do(func() { close(s.failed) })
}

func (s *sseSubscriber) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (r *eventsHttpRoutes) Stream(ctx *gin.Context) {
	header := ctx.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")

	// the stream outlives the server wide write timeout
	if err := http.NewResponseController(ctx.Writer).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		r.logger.Warnf("could not clear write deadline for event stream: %s", err)
	}

	ctx.Status(200)

	subscriber := newSSESubscriber(ctx, r.writeTimeout)
	defer subscriber.close()

	subscription, err := r.hub.Subscribe(subscriber)
	if err != nil {
		if errors.Is(err, stream.ErrHubClosed) {
			header.Del("Content-Type")
			ctx.JSON(503, gin.H{"err": err.Error()})
		}
		return
	}
	defer subscription.Unsubscribe()

	r.logger.Debugf("event stream opened by %s", ctx.ClientIP())

	select {
	case <-ctx.Request.Context().Done():
		r.logger.Debugf("event stream closed by %s", ctx.ClientIP())
	case <-subscriber.failed:
		r.logger.Debugf("event stream to %s dropped after a failed write", ctx.ClientIP())
	case <-subscription.Done():
		r.logger.Debugf("event stream to %s closed by the server", ctx.ClientIP())
	}
}
