package models

import "time"

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

type User struct {
	ID              int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Username        string    `json:"username" gorm:"column:username;uniqueIndex;not null"`
	Role            UserRole  `json:"role" gorm:"column:role;not null;default:user"`
	TrackingEnabled bool      `json:"tracking_enabled" gorm:"column:tracking_enabled;not null;default:false"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at"`
}

// Device is the durable mirror of a registered device. The live state of a
// device is held by its DeviceSession.
type Device struct {
	DeviceID  string    `json:"device_id" gorm:"column:device_id;primaryKey"`
	UserID    int64     `json:"user_id" gorm:"column:user_id;index"`
	UserAgent string    `json:"user_agent" gorm:"column:user_agent"`
	IsActive  bool      `json:"is_active" gorm:"column:is_active;not null;default:true"`
	LastSeen  time.Time `json:"last_seen" gorm:"column:last_seen"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// DeviceSession is the in-memory record of a connected device.
type DeviceSession struct {
	DeviceID      string    `json:"device_id"`
	OwnerUsername string    `json:"username"`
	UserAgent     string    `json:"user_agent,omitempty"`
	RegisteredAt  time.Time `json:"registered_at"`
	LastSeen      time.Time `json:"last_seen"`
	IsTracking    bool      `json:"is_tracking"`
}
