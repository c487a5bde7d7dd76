package sqldb

import (
	"context"

	"github.com/geotrackio/geotrack/core/pkg/engines/storage"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const activeUsersTable = "active_users"

type ActiveUserStore struct {
	db *gorm.DB
}

func NewActiveUserRepository(logger *logrus.Entry, db *gorm.DB) (storage.ActiveUserRepo, error) {
	return &ActiveUserStore{
		db: db,
	}, nil
}

func (db *ActiveUserStore) Upsert(ctx context.Context, user *models.ActiveUser) error {
	return db.db.Table(activeUsersTable).WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "role", "last_active", "updated_at"}),
	}).Create(user).Error
}

func (db *ActiveUserStore) SelectSince(ctx context.Context, since int64) ([]models.ActiveUser, error) {
	users := []models.ActiveUser{}
	tx := db.db.Table(activeUsersTable).WithContext(ctx).
		Where("last_active >= ?", since).
		Order("last_active DESC").
		Find(&users)
	if tx.Error != nil {
		return nil, tx.Error
	}

	return users, nil
}
