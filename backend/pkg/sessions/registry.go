package sessions

import (
	"sync"
	"time"

	"github.com/geotrackio/geotrack/core/pkg/models"
)

// DeviceRegistry holds the live sessions of connected devices. It is not
// persisted: a restart clears every session and devices must register again.
// All reads return copies of the stored sessions.
type DeviceRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*models.DeviceSession
	now      func() time.Time
}

func NewDeviceRegistry(opts ...Option) *DeviceRegistry {
	o := buildOptions(opts)
	return &DeviceRegistry{
		sessions: map[string]*models.DeviceSession{},
		now:      o.now,
	}
}

// Upsert creates the session of a device or refreshes an existing one. The
// registration time of an existing session is kept. Registering always
// re-enables tracking.
func (r *DeviceRegistry) Upsert(deviceID, ownerUsername, userAgent string) models.DeviceSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	session, ok := r.sessions[deviceID]
	if !ok {
		session = &models.DeviceSession{
			DeviceID:     deviceID,
			RegisteredAt: now,
		}
		r.sessions[deviceID] = session
	}

	session.OwnerUsername = ownerUsername
	session.UserAgent = userAgent
	session.LastSeen = now
	session.IsTracking = true

	return *session
}

// Touch refreshes the last seen time of a device. Returns false if the
// device has no live session.
func (r *DeviceRegistry) Touch(deviceID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[deviceID]
	if !ok {
		return false
	}

	session.LastSeen = r.now()
	return true
}

func (r *DeviceRegistry) Get(deviceID string) (models.DeviceSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[deviceID]
	if !ok {
		return models.DeviceSession{}, false
	}

	return *session, true
}

func (r *DeviceRegistry) Exists(deviceID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.sessions[deviceID]
	return ok
}

// List returns a snapshot of every live session. Order is not defined.
func (r *DeviceRegistry) List() []models.DeviceSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.DeviceSession, 0, len(r.sessions))
	for _, session := range r.sessions {
		list = append(list, *session)
	}

	return list
}

func (r *DeviceRegistry) SetTracking(deviceID string, tracking bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[deviceID]
	if !ok {
		return false
	}

	session.IsTracking = tracking
	return true
}

// Remove deletes the session of a device and reports whether it existed.
func (r *DeviceRegistry) Remove(deviceID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[deviceID]
	delete(r.sessions, deviceID)
	return ok
}

// Clear drops every session and returns how many were removed.
func (r *DeviceRegistry) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := len(r.sessions)
	r.sessions = map[string]*models.DeviceSession{}
	return count
}

func (r *DeviceRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
