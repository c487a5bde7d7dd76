package sessions

import (
	"errors"
	"sync"
	"testing"

	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandIDs(cmds []models.Command) []string {
	ids := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		ids = append(ids, cmd.ID)
	}
	return ids
}

func TestQueueFIFOAndScopedAcknowledge(t *testing.T) {
	queue := NewCommandQueue()

	a, err := queue.Enqueue("d1", models.StartTracking{})
	require.NoError(t, err)
	b, err := queue.Enqueue("d1", models.UpdateInterval{Seconds: 30})
	require.NoError(t, err)
	c, err := queue.Enqueue("d1", models.StopTracking{})
	require.NoError(t, err)

	assert.Equal(t, []string{a.ID, b.ID, c.ID}, commandIDs(queue.Pending("d1")))

	assert.True(t, queue.Acknowledge("d1", b.ID))
	assert.Equal(t, []string{a.ID, c.ID}, commandIDs(queue.Pending("d1")))

	assert.False(t, queue.Acknowledge("d2", a.ID))
	assert.Equal(t, []string{a.ID, c.ID}, commandIDs(queue.Pending("d1")))

	assert.False(t, queue.Acknowledge("d1", b.ID))
}

func TestQueueEnqueueBuildsCommand(t *testing.T) {
	queue := NewCommandQueue()

	cmd, err := queue.Enqueue("d1", models.UpdateInterval{Seconds: 45})
	require.NoError(t, err)

	assert.Equal(t, models.CommandUpdateInterval, cmd.Action)
	require.NotNil(t, cmd.Payload)
	assert.Equal(t, 45, cmd.Payload.Interval)
	assert.False(t, cmd.CreatedAt.IsZero())

	_, err = uuid.Parse(cmd.ID)
	assert.NoError(t, err)
}

func TestQueueEnqueueIDFailure(t *testing.T) {
	queue := NewCommandQueue(WithIDGenerator(func() (uuid.UUID, error) {
		return uuid.Nil, errors.New("entropy exhausted")
	}))

	_, err := queue.Enqueue("d1", models.StartTracking{})
	assert.Error(t, err)
	assert.Empty(t, queue.Pending("d1"))
}

func TestQueueWithIDGenerator(t *testing.T) {
	ids := []uuid.UUID{
		uuid.MustParse("00000000-0000-7000-8000-000000000001"),
		uuid.MustParse("00000000-0000-7000-8000-000000000002"),
	}
	next := 0
	queue := NewCommandQueue(WithIDGenerator(func() (uuid.UUID, error) {
		id := ids[next]
		next++
		return id, nil
	}), WithIDGenerator(nil))

	first, err := queue.Enqueue("d1", models.StartTracking{})
	require.NoError(t, err)
	second, err := queue.Enqueue("d1", models.StopTracking{})
	require.NoError(t, err)

	assert.Equal(t, "00000000-0000-7000-8000-000000000001", first.ID)
	assert.Equal(t, "00000000-0000-7000-8000-000000000002", second.ID)
	assert.True(t, queue.Acknowledge("d1", first.ID))
}

func TestQueuePendingIsACopy(t *testing.T) {
	queue := NewCommandQueue()
	_, err := queue.Enqueue("d1", models.StartTracking{})
	require.NoError(t, err)

	pending := queue.Pending("d1")
	pending[0].ID = "tampered"

	assert.NotEqual(t, "tampered", queue.Pending("d1")[0].ID)
	assert.NotNil(t, queue.Pending("unknown"))
	assert.Empty(t, queue.Pending("unknown"))
}

func TestQueuePurge(t *testing.T) {
	queue := NewCommandQueue()
	old, _ := queue.Enqueue("d1", models.StartTracking{})
	queue.Enqueue("d1", models.StopTracking{})
	queue.Enqueue("d2", models.StopTracking{})

	assert.Equal(t, 2, queue.Purge("d1"))
	assert.Empty(t, queue.Pending("d1"))
	assert.False(t, queue.Acknowledge("d1", old.ID))
	assert.Len(t, queue.Pending("d2"), 1)

	assert.Equal(t, 1, queue.PurgeAll())
	assert.Empty(t, queue.Pending("d2"))
}

func TestQueueConcurrentEnqueueProducesUniqueIDs(t *testing.T) {
	queue := NewCommandQueue()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			device := "d1"
			if i%2 == 0 {
				device = "d2"
			}
			_, err := queue.Enqueue(device, models.StartTracking{})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, device := range []string{"d1", "d2"} {
		pending := queue.Pending(device)
		assert.Len(t, pending, 50)
		for _, cmd := range pending {
			assert.False(t, seen[cmd.ID], "duplicated command id %s", cmd.ID)
			seen[cmd.ID] = true
		}
	}
}

func TestQueueUsesClock(t *testing.T) {
	clock := newFakeClock()
	queue := NewCommandQueue(WithClock(clock.Now))

	cmd, err := queue.Enqueue("d1", models.StopTracking{})
	require.NoError(t, err)
	assert.Equal(t, clock.Now(), cmd.CreatedAt)
}
