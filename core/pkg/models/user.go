package models

// UserDetails gathers what is known about a user: its most recent
// locations, newest first, and every device it registered.
type UserDetails struct {
	User         User       `json:"user"`
	LastLocation *Location  `json:"last_location"`
	Locations    []Location `json:"locations"`
	Devices      []Device   `json:"devices"`
	Stats        UserStats  `json:"stats"`
}

type UserStats struct {
	TotalLocations int `json:"total_locations"`
	TotalDevices   int `json:"total_devices"`
	// FirstSeen and LastSeen are unix milliseconds of the oldest and newest
	// listed locations. Both are nil when the user never reported.
	FirstSeen *int64 `json:"first_seen"`
	LastSeen  *int64 `json:"last_seen"`
}

type TrackingStatus struct {
	TrackingEnabled bool `json:"tracking_enabled"`
	UserCreated     bool `json:"user_created"`
}
