package postgres

import (
	"context"
	"fmt"

	"github.com/geotrackio/geotrack/core/pkg/config"
	"github.com/geotrackio/geotrack/core/pkg/engines/storage"
	"github.com/geotrackio/geotrack/engines/storage/sqldb"
	log "github.com/sirupsen/logrus"
)

func Register() {
	storage.RegisterStorageEngine(config.Postgres, func(logger *log.Entry, conf config.PluggableStorageEngine) (storage.StorageEngine, error) {
		return NewStorageEngine(logger, conf.Postgres)
	})
}

func NewStorageEngine(logger *log.Entry, conf config.PostgresPSEConfig) (*sqldb.StorageEngine, error) {
	db, err := CreatePostgresDBConnection(logger, conf)
	if err != nil {
		return nil, fmt.Errorf("could not create postgres client: %w", err)
	}

	if conf.SkipMigrations {
		logger.Warnf("skipping database migrations")
	} else {
		migrator, err := NewMigrator(logger, db)
		if err != nil {
			return nil, err
		}

		if err := migrator.MigrateToLatest(context.Background()); err != nil {
			return nil, err
		}
	}

	return sqldb.NewStorageEngine(logger, config.Postgres, db)
}
