package sqlite

import (
	"fmt"

	"github.com/geotrackio/geotrack/core/pkg/config"
	"github.com/geotrackio/geotrack/core/pkg/engines/storage"
	"github.com/geotrackio/geotrack/engines/storage/sqldb"
	log "github.com/sirupsen/logrus"
)

func Register() {
	storage.RegisterStorageEngine(config.SQLite, func(logger *log.Entry, conf config.PluggableStorageEngine) (storage.StorageEngine, error) {
		return NewStorageEngine(logger, conf.SQLite)
	})
}

func NewStorageEngine(logger *log.Entry, conf config.SQLitePSEConfig) (*sqldb.StorageEngine, error) {
	db, err := CreateDBConnection(logger, conf)
	if err != nil {
		return nil, fmt.Errorf("could not create sqlite client: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("could not migrate sqlite database: %w", err)
	}

	return sqldb.NewStorageEngine(logger, config.SQLite, db)
}
