package sqldb

import (
	"github.com/geotrackio/geotrack/core/pkg/config"
	"github.com/geotrackio/geotrack/core/pkg/engines/storage"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StorageEngine serves every repository from a single gorm connection. The
// postgres and sqlite providers only differ in how the connection is opened
// and migrated.
type StorageEngine struct {
	storage.CommonStorageEngine
	provider config.StorageProvider
	logger   *logrus.Entry
	db       *gorm.DB
}

func NewStorageEngine(logger *logrus.Entry, provider config.StorageProvider, db *gorm.DB) (*StorageEngine, error) {
	engine := &StorageEngine{
		provider: provider,
		logger:   logger,
		db:       db,
	}

	var err error
	if engine.Users, err = NewUserRepository(logger, db); err != nil {
		return nil, err
	}
	if engine.Devices, err = NewDeviceRepository(logger, db); err != nil {
		return nil, err
	}
	if engine.Locations, err = NewLocationRepository(logger, db); err != nil {
		return nil, err
	}
	if engine.ActiveUsers, err = NewActiveUserRepository(logger, db); err != nil {
		return nil, err
	}

	return engine, nil
}

func (s *StorageEngine) GetProvider() config.StorageProvider {
	return s.provider
}

func (s *StorageEngine) GetUserStorage() (storage.UserRepo, error) {
	return s.Users, nil
}

func (s *StorageEngine) GetDeviceStorage() (storage.DeviceRepo, error) {
	return s.Devices, nil
}

func (s *StorageEngine) GetLocationStorage() (storage.LocationRepo, error) {
	return s.Locations, nil
}

func (s *StorageEngine) GetActiveUserStorage() (storage.ActiveUserRepo, error) {
	return s.ActiveUsers, nil
}

// DB exposes the underlying connection, mainly for shutdown.
func (s *StorageEngine) DB() *gorm.DB {
	return s.db
}

func (s *StorageEngine) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
