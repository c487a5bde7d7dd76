package jobs

import (
	"github.com/sirupsen/logrus"
)

type Heartbeater interface {
	SendHeartbeat()
	SubscriberCount() int
}

// StreamHeartbeat writes a heartbeat to every stream subscriber so dead connections are
// evicted within one interval.
type StreamHeartbeat struct {
	logger *logrus.Entry
	hub    Heartbeater
}

func NewStreamHeartbeatJob(hub Heartbeater, logger *logrus.Entry) *StreamHeartbeat {
	return &StreamHeartbeat{
		hub:    hub,
		logger: logger,
	}
}

func (job *StreamHeartbeat) Run() {
	before := job.hub.SubscriberCount()
	if before == 0 {
		return
	}

	job.hub.SendHeartbeat()

	after := job.hub.SubscriberCount()
	if after < before {
		job.logger.Infof("heartbeat evicted %d subscribers. Remaining subscribers: %d", before-after, after)
	} else {
		job.logger.Tracef("heartbeat sent to %d subscribers", after)
	}
}
