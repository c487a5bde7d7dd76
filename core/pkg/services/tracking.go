package services

import (
	"context"

	"github.com/geotrackio/geotrack/core/pkg/models"
)

// TrackingService coordinates the live device registry and the per-device
// command queues.
type TrackingService interface {
	RegisterDevice(ctx context.Context, input RegisterDeviceInput) (*models.DeviceSession, error)
	IssueCommand(ctx context.Context, input IssueCommandInput) (*models.Command, error)
	BroadcastCommand(ctx context.Context, input BroadcastCommandInput) (int, error)
	RemoveDevice(ctx context.Context, input RemoveDeviceInput) error
	AcknowledgeCommand(ctx context.Context, input AcknowledgeCommandInput) (bool, error)
	PollCommands(ctx context.Context, input PollCommandsInput) ([]models.Command, error)
	GetDevices(ctx context.Context) ([]models.DeviceSession, error)
	GetDeviceByID(ctx context.Context, input GetDeviceByIDInput) (*models.DeviceSession, error)
}

type RegisterDeviceInput struct {
	DeviceID  string `validate:"required"`
	Username  string `validate:"required"`
	UserAgent string
}

type IssueCommandInput struct {
	DeviceID string               `validate:"required"`
	Action   models.CommandAction `validate:"required"`
	Interval int
}

type BroadcastCommandInput struct {
	Action   models.CommandAction `validate:"required"`
	Interval int
}

type RemoveDeviceInput struct {
	DeviceID string `validate:"required"`
}

type AcknowledgeCommandInput struct {
	DeviceID  string `validate:"required"`
	CommandID string `validate:"required"`
}

type PollCommandsInput struct {
	DeviceID string `validate:"required"`
}

type GetDeviceByIDInput struct {
	DeviceID string `validate:"required"`
}
