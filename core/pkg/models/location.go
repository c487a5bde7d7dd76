package models

import "time"

type Location struct {
	ID        int64     `json:"id,omitempty" gorm:"column:id;primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"column:user_id;index;not null"`
	Username  string    `json:"username" gorm:"column:username;not null"`
	DeviceID  string    `json:"device_id,omitempty" gorm:"column:device_id"`
	Latitude  float64   `json:"latitude" gorm:"column:latitude;not null"`
	Longitude float64   `json:"longitude" gorm:"column:longitude;not null"`
	Accuracy  *float64  `json:"accuracy,omitempty" gorm:"column:accuracy"`
	// Timestamp is the server-side ingest time in unix milliseconds.
	Timestamp int64     `json:"timestamp" gorm:"column:timestamp;index;not null"`
	CreatedAt time.Time `json:"-" gorm:"column:created_at;autoCreateTime"`
}

type ActiveUser struct {
	UserID     string    `json:"user_id" gorm:"column:user_id;primaryKey"`
	Username   string    `json:"username" gorm:"column:username;not null"`
	Role       UserRole  `json:"role" gorm:"column:role;not null"`
	LastActive int64     `json:"last_active" gorm:"column:last_active;index;not null"`
	UpdatedAt  time.Time `json:"-" gorm:"column:updated_at;autoUpdateTime"`
}

type Timeframe string

const (
	Timeframe1h  Timeframe = "1h"
	Timeframe6h  Timeframe = "6h"
	Timeframe24h Timeframe = "24h"
	Timeframe7d  Timeframe = "7d"
)

var timeframeDurations = map[Timeframe]time.Duration{
	Timeframe1h:  time.Hour,
	Timeframe6h:  6 * time.Hour,
	Timeframe24h: 24 * time.Hour,
	Timeframe7d:  7 * 24 * time.Hour,
}

// Duration returns the lookback window of the timeframe. Unknown timeframes
// fall back to 24h.
func (t Timeframe) Duration() time.Duration {
	if d, ok := timeframeDurations[t]; ok {
		return d
	}

	return timeframeDurations[Timeframe24h]
}
