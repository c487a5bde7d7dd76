package builder

import (
	"fmt"

	"github.com/geotrackio/geotrack/core/pkg/config"
	"github.com/geotrackio/geotrack/core/pkg/engines/storage"
	"github.com/geotrackio/geotrack/engines/storage/postgres"
	"github.com/geotrackio/geotrack/engines/storage/sqlite"
	log "github.com/sirupsen/logrus"
)

func BuildStorageEngine(logger *log.Entry, conf config.PluggableStorageEngine) (storage.StorageEngine, error) {
	builder := storage.GetEngineBuilder(conf.Provider)
	if builder == nil {
		return nil, fmt.Errorf("no storage engine of type %s", conf.Provider)
	}

	return builder(logger, conf)
}

func init() {
	postgres.Register()
	sqlite.Register()
}
