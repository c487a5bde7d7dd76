package storage

import (
	"github.com/geotrackio/geotrack/core/pkg/config"
	"github.com/sirupsen/logrus"
)

type CommonStorageEngine struct {
	Users       UserRepo
	Devices     DeviceRepo
	Locations   LocationRepo
	ActiveUsers ActiveUserRepo
}

type StorageEngine interface {
	GetProvider() config.StorageProvider
	GetUserStorage() (UserRepo, error)
	GetDeviceStorage() (DeviceRepo, error)
	GetLocationStorage() (LocationRepo, error)
	GetActiveUserStorage() (ActiveUserRepo, error)
}

// map of available storage engines with config.StorageProvider as key and function to build the storage engine as value
var storageEngineBuilders = make(map[config.StorageProvider]func(*logrus.Entry, config.PluggableStorageEngine) (StorageEngine, error))

// RegisterStorageEngine registers a new storage engine
func RegisterStorageEngine(name config.StorageProvider, builder func(*logrus.Entry, config.PluggableStorageEngine) (StorageEngine, error)) {
	storageEngineBuilders[name] = builder
}

func GetEngineBuilder(name config.StorageProvider) func(*logrus.Entry, config.PluggableStorageEngine) (StorageEngine, error) {
	return storageEngineBuilders[name]
}
