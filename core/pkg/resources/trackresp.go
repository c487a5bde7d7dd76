package resources

import "github.com/geotrackio/geotrack/core/pkg/models"

type RegisterDeviceResponse struct {
	Success bool                 `json:"success"`
	Device  models.DeviceSession `json:"device"`
}

type GetDevicesResponse struct {
	Devices []models.DeviceSession `json:"devices"`
}

type DeviceStatusResponse struct {
	Exists bool `json:"exists"`
	models.DeviceSession
}

type PollCommandsResponse struct {
	Commands []models.Command `json:"commands"`
}

type AcknowledgeCommandResponse struct {
	Success      bool `json:"success"`
	Acknowledged bool `json:"acknowledged"`
}

type IssueCommandResponse struct {
	Success   bool   `json:"success"`
	CommandID string `json:"command_id"`
}

type BroadcastCommandResponse struct {
	Success      bool `json:"success"`
	DevicesCount int  `json:"devices_count"`
}

type IngestLocationResponse struct {
	Success   bool  `json:"success"`
	Timestamp int64 `json:"timestamp"`
}

type GetLocationsResponse struct {
	Locations []models.Location `json:"locations"`
}

type GetActiveUsersResponse struct {
	Users []models.ActiveUser `json:"users"`
}
