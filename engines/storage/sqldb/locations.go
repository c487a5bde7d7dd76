package sqldb

import (
	"context"

	"github.com/geotrackio/geotrack/core/pkg/engines/storage"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const locationsTable = "locations"

type LocationStore struct {
	db      *gorm.DB
	querier *tableQuerier[models.Location]
}

func NewLocationRepository(logger *logrus.Entry, db *gorm.DB) (storage.LocationRepo, error) {
	return &LocationStore{
		db:      db,
		querier: newTableQuerier[models.Location](db, locationsTable, "id"),
	}, nil
}

func (db *LocationStore) Insert(ctx context.Context, location *models.Location) (*models.Location, error) {
	return db.querier.Insert(ctx, location)
}

func (db *LocationStore) SelectByUsername(ctx context.Context, username string, limit int) ([]models.Location, error) {
	return db.querier.SelectWhere(ctx, `"timestamp" DESC, id DESC`, limit, "username = ?", username)
}

func (db *LocationStore) SelectLatestPerUser(ctx context.Context, since int64) ([]models.Location, error) {
	latest := db.db.Table(locationsTable).
		Select(`user_id, MAX("timestamp") AS latest_ts`).
		Where(`"timestamp" >= ?`, since).
		Group("user_id")

	var rows []models.Location
	tx := db.db.WithContext(ctx).
		Table(locationsTable+" AS l").
		Select("l.*").
		Joins(`JOIN (?) AS latest ON l.user_id = latest.user_id AND l."timestamp" = latest.latest_ts`, latest).
		Order(`l."timestamp" DESC, l.id DESC`).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	// two fixes of a user can share the same millisecond
	seen := make(map[string]bool, len(rows))
	locations := make([]models.Location, 0, len(rows))
	for _, row := range rows {
		if seen[row.UserID] {
			continue
		}

		seen[row.UserID] = true
		locations = append(locations, row)
	}

	return locations, nil
}
