package models

const HttpSourceHeader = "x-geotrack-source"
const HttpRequestIDHeader = "x-request-id"
const HttpActorRoleHeader = "x-geotrack-actor-role"
const HttpActorIDHeader = "x-geotrack-actor-id"

const TrackingSource = "geotrack/tracking"
const LocationsSource = "geotrack/locations"
const UsersSource = "geotrack/users"

// EventType identifies the CloudEvents mirrored to the integration event bus.
type EventType string

const (
	EventRegisterDeviceKey   EventType = "device.register"
	EventRemoveDeviceKey     EventType = "device.remove"
	EventIssueCommandKey     EventType = "device.command.issue"
	EventBroadcastCommandKey EventType = "device.command.broadcast"
	EventCleanupDevicesKey   EventType = "device.cleanup"

	EventIngestLocationKey EventType = "location.ingest"

	EventCreateUserKey         EventType = "user.create"
	EventUpdateUserTrackingKey EventType = "user.update.tracking"
	EventDeleteUserKey         EventType = "user.delete"
)

// StreamEventType identifies the events pushed to live stream subscribers.
type StreamEventType string

const (
	StreamEventConnected        StreamEventType = "connected"
	StreamEventHeartbeat        StreamEventType = "heartbeat"
	StreamEventLocationUpdate   StreamEventType = "location-update"
	StreamEventDeviceRegistered StreamEventType = "device-registered"
	StreamEventDeviceRemoved    StreamEventType = "device-removed"
)

type StreamEvent struct {
	Type StreamEventType `json:"type"`
	Data any             `json:"data"`
	// Timestamp is the publish time in unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

type DeviceRegisteredEvent struct {
	DeviceID  string `json:"device_id"`
	Username  string `json:"username"`
	Timestamp int64  `json:"timestamp"`
}

type DeviceRemovedEvent struct {
	DeviceID  string `json:"device_id"`
	Timestamp int64  `json:"timestamp"`
}

type CommandIssuedEvent struct {
	DeviceID string  `json:"device_id"`
	Command  Command `json:"command"`
}

type CommandBroadcastEvent struct {
	Action       CommandAction `json:"action"`
	DevicesCount int           `json:"devices_count"`
}

type UserDeletedEvent struct {
	ID int64 `json:"id"`
}
