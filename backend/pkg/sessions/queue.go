package sessions

import (
	"fmt"
	"sync"
	"time"

	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/google/uuid"
)

// CommandQueue keeps a FIFO of pending commands per device. Commands stay
// queued until the owning device acknowledges them or the queue is purged.
type CommandQueue struct {
	mu     sync.Mutex
	queues map[string][]models.Command
	now    func() time.Time
	newID  func() (uuid.UUID, error)
}

func NewCommandQueue(opts ...Option) *CommandQueue {
	o := buildOptions(opts)
	return &CommandQueue{
		queues: map[string][]models.Command{},
		now:    o.now,
		newID:  o.newID,
	}
}

// Enqueue appends a command to the queue of a device, creating the queue if
// needed. Ids are time ordered UUIDs with a random tail.
func (q *CommandQueue) Enqueue(deviceID string, cmd models.DeviceCommand) (models.Command, error) {
	id, err := q.newID()
	if err != nil {
		return models.Command{}, fmt.Errorf("could not generate command id: %w", err)
	}

	command := models.Command{
		ID:        id.String(),
		Action:    cmd.Action(),
		Payload:   cmd.Payload(),
		CreatedAt: q.now(),
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.queues[deviceID] = append(q.queues[deviceID], command)
	return command, nil
}

// Pending returns the commands waiting for a device without consuming them.
func (q *CommandQueue) Pending(deviceID string) []models.Command {
	q.mu.Lock()
	defer q.mu.Unlock()

	queue := q.queues[deviceID]
	pending := make([]models.Command, len(queue))
	copy(pending, queue)
	return pending
}

// Acknowledge removes a command from the queue of the given device. A command
// queued for another device is never matched.
func (q *CommandQueue) Acknowledge(deviceID, commandID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	queue, ok := q.queues[deviceID]
	if !ok {
		return false
	}

	for i, cmd := range queue {
		if cmd.ID != commandID {
			continue
		}

		remaining := make([]models.Command, 0, len(queue)-1)
		remaining = append(remaining, queue[:i]...)
		remaining = append(remaining, queue[i+1:]...)
		if len(remaining) == 0 {
			delete(q.queues, deviceID)
		} else {
			q.queues[deviceID] = remaining
		}

		return true
	}

	return false
}

// Purge drops the queue of a device and returns how many commands it held.
func (q *CommandQueue) Purge(deviceID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	count := len(q.queues[deviceID])
	delete(q.queues, deviceID)
	return count
}

// PurgeAll drops every queue and returns how many commands were discarded.
func (q *CommandQueue) PurgeAll() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	count := 0
	for _, queue := range q.queues {
		count += len(queue)
	}

	q.queues = map[string][]models.Command{}
	return count
}
