package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeviceCommand(t *testing.T) {
	var testcases = []struct {
		name     string
		action   CommandAction
		interval int
		expected DeviceCommand
		err      bool
	}{
		{name: "StartTracking", action: CommandStartTracking, expected: StartTracking{}},
		{name: "StartTrackingIgnoresInterval", action: CommandStartTracking, interval: 10, expected: StartTracking{}},
		{name: "StopTracking", action: CommandStopTracking, expected: StopTracking{}},
		{name: "UpdateInterval", action: CommandUpdateInterval, interval: 45, expected: UpdateInterval{Seconds: 45}},
		{name: "UpdateIntervalWithoutInterval", action: CommandUpdateInterval, err: true},
		{name: "UpdateIntervalNegative", action: CommandUpdateInterval, interval: -5, err: true},
		{name: "CleanupIsNotADeviceCommand", action: CommandCleanupDevices, err: true},
		{name: "Unknown", action: CommandAction("self_destruct"), err: true},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := NewDeviceCommand(tc.action, tc.interval)
			if tc.err {
				assert.Error(t, err)
				assert.Nil(t, cmd)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, cmd)
			assert.Equal(t, tc.action, cmd.Action())
		})
	}
}

func TestCommandWireShape(t *testing.T) {
	created := time.UnixMilli(1700000000123)

	raw, err := json.Marshal(Command{
		ID:        "0190a7a2-0000-7000-8000-000000000000",
		Action:    CommandUpdateInterval,
		Payload:   UpdateInterval{Seconds: 60}.Payload(),
		CreatedAt: created,
	})
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &wire))

	assert.Equal(t, "0190a7a2-0000-7000-8000-000000000000", wire["id"])
	assert.Equal(t, "update_interval", wire["action"])
	assert.Equal(t, map[string]interface{}{"interval": float64(60)}, wire["payload"])
	assert.Equal(t, float64(60), wire["interval"])
	assert.Equal(t, float64(1700000000123), wire["timestamp"])

	raw, err = json.Marshal(Command{ID: "a", Action: CommandStopTracking, CreatedAt: created})
	require.NoError(t, err)

	wire = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Nil(t, wire["payload"])
	assert.Contains(t, wire, "payload")
	assert.NotContains(t, wire, "interval")

	var decoded Command
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, CommandStopTracking, decoded.Action)
	assert.True(t, created.Equal(decoded.CreatedAt))
}

func TestTimeframeDuration(t *testing.T) {
	assert.Equal(t, time.Hour, Timeframe1h.Duration())
	assert.Equal(t, 6*time.Hour, Timeframe6h.Duration())
	assert.Equal(t, 7*24*time.Hour, Timeframe7d.Duration())
	assert.Equal(t, 24*time.Hour, Timeframe("").Duration())
	assert.Equal(t, 24*time.Hour, Timeframe("1y").Duration())
}
