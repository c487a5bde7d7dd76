package notify

import (
	"context"

	"github.com/geotrackio/geotrack/core/pkg/models"
)

// CommandNotifier tells a device that new commands are waiting. Polling
// remains the delivery guarantee: a failed notification only delays the
// device until its next poll.
type CommandNotifier interface {
	NotifyCommand(ctx context.Context, deviceID string, command models.Command) error
}

type NoopNotifier struct{}

func (NoopNotifier) NotifyCommand(context.Context, string, models.Command) error {
	return nil
}
