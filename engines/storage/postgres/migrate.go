package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

type Migrator struct {
	logger *logrus.Entry
	Goose  *goose.Provider
}

func NewMigrator(logger *logrus.Entry, db *gorm.DB) (*Migrator, error) {
	lMig := logger.WithField("migrations", db.Migrator().CurrentDatabase())

	migrationsFS, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("could not obtain migrations subdirectory: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not get db connection: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrationsFS)
	if err != nil {
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}

	return &Migrator{
		logger: lMig,
		Goose:  provider,
	}, nil
}

func (m *Migrator) MigrateToLatest(ctx context.Context) error {
	current, target, err := m.Goose.GetVersions(ctx)
	if err != nil {
		return fmt.Errorf("could not get db version: %w", err)
	}

	m.logger.Infof("current version: %d", current)
	m.logger.Infof("target version: %d", target)

	results, err := m.Goose.UpTo(ctx, target)
	if err != nil {
		return fmt.Errorf("could not migrate db: %w", err)
	}

	m.logger.Infof("migrated %d steps", len(results))
	return nil
}
