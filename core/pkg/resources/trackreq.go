package resources

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/geotrackio/geotrack/core/pkg/models"
)

// FlexibleID accepts identifiers sent either as JSON strings or as JSON
// numbers, as mobile clients send numeric user ids.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or a number: %w", err)
	}

	*id = FlexibleID(n.String())
	return nil
}

type RegisterDeviceBody struct {
	DeviceID  string `json:"device_id"`
	Username  string `json:"username"`
	UserAgent string `json:"user_agent"`
}

type IssueCommandBody struct {
	Action   models.CommandAction `json:"action"`
	Interval int                  `json:"interval"`
}

type IngestLocationBody struct {
	UserID    FlexibleID `json:"user_id"`
	Username  string     `json:"username"`
	DeviceID  string     `json:"device_id"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	Accuracy  *float64   `json:"accuracy"`
}
