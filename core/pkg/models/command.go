package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type CommandAction string

const (
	CommandStartTracking  CommandAction = "start_tracking"
	CommandStopTracking   CommandAction = "stop_tracking"
	CommandUpdateInterval CommandAction = "update_interval"

	// CommandCleanupDevices is an administrative broadcast action. It is
	// never enqueued to a device.
	CommandCleanupDevices CommandAction = "cleanup_devices"
)

type CommandPayload struct {
	Interval int `json:"interval"`
}

// DeviceCommand is the closed set of instructions that can be queued for a
// device: StartTracking, StopTracking and UpdateInterval.
type DeviceCommand interface {
	Action() CommandAction
	Payload() *CommandPayload
	deviceCommand()
}

type StartTracking struct{}

func (StartTracking) Action() CommandAction    { return CommandStartTracking }
func (StartTracking) Payload() *CommandPayload { return nil }
func (StartTracking) deviceCommand()           {}

type StopTracking struct{}

func (StopTracking) Action() CommandAction    { return CommandStopTracking }
func (StopTracking) Payload() *CommandPayload { return nil }
func (StopTracking) deviceCommand()           {}

type UpdateInterval struct {
	Seconds int
}

func (UpdateInterval) Action() CommandAction { return CommandUpdateInterval }
func (c UpdateInterval) Payload() *CommandPayload {
	return &CommandPayload{Interval: c.Seconds}
}
func (UpdateInterval) deviceCommand() {}

// NewDeviceCommand maps the wire representation of a command onto its
// variant. interval is only read for update_interval and must be positive.
func NewDeviceCommand(action CommandAction, interval int) (DeviceCommand, error) {
	switch action {
	case CommandStartTracking:
		return StartTracking{}, nil
	case CommandStopTracking:
		return StopTracking{}, nil
	case CommandUpdateInterval:
		if interval <= 0 {
			return nil, fmt.Errorf("action %s requires a positive interval, got %d", action, interval)
		}
		return UpdateInterval{Seconds: interval}, nil
	default:
		return nil, fmt.Errorf("unknown command action '%s'", action)
	}
}

// Command is a DeviceCommand sitting in a device queue.
type Command struct {
	ID        string          `json:"id"`
	Action    CommandAction   `json:"action"`
	Payload   *CommandPayload `json:"payload"`
	CreatedAt time.Time       `json:"-"`
}

func (c Command) MarshalJSON() ([]byte, error) {
	type wireCommand struct {
		ID        string          `json:"id"`
		Action    CommandAction   `json:"action"`
		Payload   *CommandPayload `json:"payload"`
		Interval  int             `json:"interval,omitempty"`
		Timestamp int64           `json:"timestamp"`
	}

	wire := wireCommand{
		ID:        c.ID,
		Action:    c.Action,
		Payload:   c.Payload,
		Timestamp: c.CreatedAt.UnixMilli(),
	}

	// mobile clients read the interval at the top level of the command
	if c.Payload != nil {
		wire.Interval = c.Payload.Interval
	}

	return json.Marshal(wire)
}

func (c *Command) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID        string          `json:"id"`
		Action    CommandAction   `json:"action"`
		Payload   *CommandPayload `json:"payload"`
		Timestamp int64           `json:"timestamp"`
	}

	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	c.ID = wire.ID
	c.Action = wire.Action
	c.Payload = wire.Payload
	c.CreatedAt = time.UnixMilli(wire.Timestamp)
	return nil
}
