package postgrestest

import (
	"fmt"
	"strconv"

	"github.com/geotrackio/geotrack/core/pkg/config"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	user     = "admin"
	password = "test"
	database = "geotrack"
)

// RunPostgresDocker starts a disposable postgres container and waits until it
// accepts connections.
func RunPostgresDocker() (func() error, *config.PostgresPSEConfig, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, nil, fmt.Errorf("could not construct pool: %w", err)
	}

	if err := pool.Client.Ping(); err != nil {
		return nil, nil, fmt.Errorf("could not connect to docker: %w", err)
	}

	container, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "14",
		Env: []string{
			"POSTGRES_USER=" + user,
			"POSTGRES_PASSWORD=" + password,
			"POSTGRES_DB=" + database,
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not start resource: %w", err)
	}

	cleanup := func() error {
		return pool.Purge(container)
	}

	port, _ := strconv.Atoi(container.GetPort("5432/tcp"))
	conf := &config.PostgresPSEConfig{
		Hostname: "127.0.0.1",
		Port:     port,
		Username: user,
		Password: password,
		Database: database,
	}

	err = pool.Retry(func() error {
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable", conf.Hostname, user, password, database, port)
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		return sqlDB.Ping()
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("could not connect to postgres: %w", err)
	}

	return cleanup, conf, nil
}
