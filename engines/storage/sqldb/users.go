package sqldb

import (
	"context"

	"github.com/geotrackio/geotrack/core/pkg/engines/storage"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const usersTable = "users"

type UserStore struct {
	querier *tableQuerier[models.User]
}

func NewUserRepository(logger *logrus.Entry, db *gorm.DB) (storage.UserRepo, error) {
	return &UserStore{
		querier: newTableQuerier[models.User](db, usersTable, "id"),
	}, nil
}

func (db *UserStore) SelectByUsername(ctx context.Context, username string) (bool, *models.User, error) {
	col := "username"
	return db.querier.SelectExists(ctx, username, &col)
}

func (db *UserStore) SelectByID(ctx context.Context, id int64) (bool, *models.User, error) {
	return db.querier.SelectExists(ctx, id, nil)
}

func (db *UserStore) SelectAll(ctx context.Context) ([]models.User, error) {
	return db.querier.SelectWhere(ctx, "created_at DESC, id DESC", 0, nil)
}

func (db *UserStore) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Role == "" {
		user.Role = models.UserRoleUser
	}

	return db.querier.Insert(ctx, user)
}

func (db *UserStore) UpdateTrackingEnabled(ctx context.Context, id int64, enabled bool) error {
	return db.querier.UpdateColumns(ctx, id, map[string]any{
		"tracking_enabled": enabled,
	})
}

// Delete removes the user. Devices and locations reported by the user are
// kept as history.
func (db *UserStore) Delete(ctx context.Context, id int64) error {
	return db.querier.Delete(ctx, id)
}
