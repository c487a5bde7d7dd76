package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/geotrackio/geotrack/core/pkg/config"
	"github.com/geotrackio/geotrack/engines/storage/sqldb"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const dbName = "geotrack"

func dsn(conf config.SQLitePSEConfig) (string, error) {
	if conf.InMemory {
		return ":memory:", nil
	}

	if conf.DatabasePath == "" {
		return "", fmt.Errorf("sqlite database path must be set when not running in memory")
	}

	if err := os.MkdirAll(conf.DatabasePath, 0o750); err != nil {
		return "", fmt.Errorf("could not create sqlite database directory: %w", err)
	}

	return filepath.Join(conf.DatabasePath, dbName+".db"), nil
}

func CreateDBConnection(logger *logrus.Entry, conf config.SQLitePSEConfig) (*gorm.DB, error) {
	path, err := dsn(conf)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: sqldb.NewGormLogger(logger),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// a single writer. An in-memory database lives as long as its only
	// connection, so that connection must never be recycled.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	if conf.InMemory {
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("could not apply '%s': %w", pragma, err)
		}
	}

	logger.Infof("sqlite connection established at %s", path)
	return db, nil
}
