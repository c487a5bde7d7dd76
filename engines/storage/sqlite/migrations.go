package sqlite

import (
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202406010900",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Device{}, &models.Location{}, &models.ActiveUser{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("active_users", "locations", "devices", "users")
			},
		},
		{
			ID: "202406151200",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_locations_user_ts ON locations (user_id, "timestamp")`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec("DROP INDEX IF EXISTS idx_locations_user_ts").Error
			},
		},
	}
}

func Migrate(db *gorm.DB) error {
	return gormigrate.New(db, gormigrate.DefaultOptions, migrations()).Migrate()
}
