package jobs

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

type fakeHub struct {
	subscribers int
	evictOnBeat int
	beats       int
}

func (h *fakeHub) SendHeartbeat() {
	h.beats++
	h.subscribers -= h.evictOnBeat
}

func (h *fakeHub) SubscriberCount() int {
	return h.subscribers
}

func TestStreamHeartbeatSkipsEmptyHub(t *testing.T) {
	hub := &fakeHub{}
	logger, _ := test.NewNullLogger()

	NewStreamHeartbeatJob(hub, logger.WithField("subsystem", "Heartbeat")).Run()
	assert.Equal(t, 0, hub.beats)
}

func TestStreamHeartbeatReportsEvictions(t *testing.T) {
	hub := &fakeHub{subscribers: 3, evictOnBeat: 1}
	logger, hook := test.NewNullLogger()

	NewStreamHeartbeatJob(hub, logger.WithField("subsystem", "Heartbeat")).Run()

	assert.Equal(t, 1, hub.beats)
	if assert.NotNil(t, hook.LastEntry()) {
		assert.Contains(t, hook.LastEntry().Message, "evicted 1 subscribers")
	}
}
