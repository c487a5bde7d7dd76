package storage

import (
	"context"
	"time"

	"github.com/geotrackio/geotrack/core/pkg/models"
)

type UserRepo interface {
	SelectByUsername(ctx context.Context, username string) (bool, *models.User, error)
	SelectByID(ctx context.Context, id int64) (bool, *models.User, error)
	// SelectAll returns every user, newest first.
	SelectAll(ctx context.Context) ([]models.User, error)
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	UpdateTrackingEnabled(ctx context.Context, id int64, enabled bool) error
	Delete(ctx context.Context, id int64) error
}

type DeviceRepo interface {
	// Upsert inserts the device or refreshes owner, user agent and last seen
	// of an existing one, marking it active.
	Upsert(ctx context.Context, device *models.Device) error
	SelectExists(ctx context.Context, deviceID string) (bool, *models.Device, error)
	TouchLastSeen(ctx context.Context, deviceID string, ts time.Time) error
	Deactivate(ctx context.Context, deviceID string) error
	// SelectByUserID returns the devices ever registered by a user, most
	// recently seen first.
	SelectByUserID(ctx context.Context, userID int64) ([]models.Device, error)
}

type LocationRepo interface {
	Insert(ctx context.Context, location *models.Location) (*models.Location, error)
	// SelectLatestPerUser returns the most recent location of every user
	// that reported at or after since (unix milliseconds).
	SelectLatestPerUser(ctx context.Context, since int64) ([]models.Location, error)
	// SelectByUsername returns up to limit locations of a user, newest first.
	SelectByUsername(ctx context.Context, username string, limit int) ([]models.Location, error)
}

type ActiveUserRepo interface {
	Upsert(ctx context.Context, user *models.ActiveUser) error
	SelectSince(ctx context.Context, since int64) ([]models.ActiveUser, error)
}
