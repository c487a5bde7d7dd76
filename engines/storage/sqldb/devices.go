package sqldb

import (
	"context"
	"time"

	"github.com/geotrackio/geotrack/core/pkg/engines/storage"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const devicesTable = "devices"

type DeviceStore struct {
	db      *gorm.DB
	querier *tableQuerier[models.Device]
	now     func() time.Time
}

func NewDeviceRepository(logger *logrus.Entry, db *gorm.DB) (storage.DeviceRepo, error) {
	return &DeviceStore{
		db:      db,
		querier: newTableQuerier[models.Device](db, devicesTable, "device_id"),
		now:     time.Now,
	}, nil
}

func (db *DeviceStore) Upsert(ctx context.Context, device *models.Device) error {
	now := db.now()
	device.IsActive = true
	device.UpdatedAt = now
	if device.CreatedAt.IsZero() {
		device.CreatedAt = now
	}
	if device.LastSeen.IsZero() {
		device.LastSeen = now
	}

	return db.db.Table(devicesTable).WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "user_agent", "is_active", "last_seen", "updated_at"}),
	}).Create(device).Error
}

func (db *DeviceStore) SelectExists(ctx context.Context, deviceID string) (bool, *models.Device, error) {
	return db.querier.SelectExists(ctx, deviceID, nil)
}

func (db *DeviceStore) TouchLastSeen(ctx context.Context, deviceID string, ts time.Time) error {
	return db.querier.UpdateColumns(ctx, deviceID, map[string]any{
		"last_seen":  ts,
		"updated_at": db.now(),
	})
}

// Deactivate flags the device as inactive. The row is kept.
func (db *DeviceStore) Deactivate(ctx context.Context, deviceID string) error {
	return db.querier.UpdateColumns(ctx, deviceID, map[string]any{
		"is_active":  false,
		"updated_at": db.now(),
	})
}

func (db *DeviceStore) SelectByUserID(ctx context.Context, userID int64) ([]models.Device, error) {
	return db.querier.SelectWhere(ctx, "last_seen DESC, device_id", 0, "user_id = ?", userID)
}
