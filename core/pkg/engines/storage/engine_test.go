package storage

import (
	"testing"

	"github.com/geotrackio/geotrack/core/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type fakeStorageEngine struct{}

func (m *fakeStorageEngine) GetProvider() config.StorageProvider {
	return config.StorageProvider("mockProvider")
}

func (m *fakeStorageEngine) GetUserStorage() (UserRepo, error) {
	return nil, nil
}

func (m *fakeStorageEngine) GetDeviceStorage() (DeviceRepo, error) {
	return nil, nil
}

func (m *fakeStorageEngine) GetLocationStorage() (LocationRepo, error) {
	return nil, nil
}

func (m *fakeStorageEngine) GetActiveUserStorage() (ActiveUserRepo, error) {
	return nil, nil
}

func TestRegisterStorageEngine(t *testing.T) {
	mockProvider := config.StorageProvider("mockProvider")
	mockBuilder := func(logger *logrus.Entry, config config.PluggableStorageEngine) (StorageEngine, error) {
		return &fakeStorageEngine{}, nil
	}

	RegisterStorageEngine(mockProvider, mockBuilder)

	assert.Contains(t, storageEngineBuilders, mockProvider)
}

func TestGetEngineBuilder(t *testing.T) {
	mockProvider := config.StorageProvider("mockProvider")
	mockBuilder := func(logger *logrus.Entry, config config.PluggableStorageEngine) (StorageEngine, error) {
		return &fakeStorageEngine{}, nil
	}

	RegisterStorageEngine(mockProvider, mockBuilder)

	builder := GetEngineBuilder(mockProvider)
	assert.NotNil(t, builder)

	engine, err := builder(logrus.NewEntry(logrus.New()), config.PluggableStorageEngine{})
	assert.NoError(t, err)
	assert.Equal(t, mockProvider, engine.GetProvider())

	assert.Nil(t, GetEngineBuilder(config.StorageProvider("unknown")))
}
