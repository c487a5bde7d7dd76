package config

import (
	"testing"
	"time"

	cconfig "github.com/geotrackio/geotrack/core/pkg/config"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTrackingConfigMergesDefaults(t *testing.T) {
	t.Setenv(cconfig.ConfigFileEnvVar, "testdata/tracking-config.yml")

	conf, err := cconfig.LoadConfig[TrackingConfig](&TrackingDefaultConfig)
	require.NoError(t, err)

	assert.Equal(t, cconfig.Debug, conf.Logs.Level)
	assert.Equal(t, 9090, conf.Server.Port)
	assert.Equal(t, "0.0.0.0", conf.Server.ListenAddress)
	assert.False(t, conf.Server.Authorization.Enforce)
	assert.Equal(t, "X-Geotrack-Actor-Role", conf.Server.Authorization.RoleHeader)

	assert.True(t, conf.PublisherEventBus.Enabled)
	assert.Equal(t, cconfig.Amqp, conf.PublisherEventBus.Provider)
	assert.Equal(t, "rabbitmq", conf.PublisherEventBus.Config["hostname"])

	assert.Equal(t, cconfig.Postgres, conf.Storage.Provider)
	assert.Equal(t, cconfig.Password("geotrack"), conf.Storage.Postgres.Password)

	assert.Equal(t, 15*time.Second, conf.Stream.HeartbeatInterval)
	assert.Equal(t, 10*time.Second, conf.Stream.WriteTimeout)
	assert.Equal(t, 10*time.Minute, conf.Monitoring.StaleAfter)

	assert.True(t, conf.CommandPush.Enabled)
	assert.Equal(t, "tcp://mosquitto:1883", conf.CommandPush.Broker)
	assert.Equal(t, "fleet", conf.CommandPush.TopicPrefix)
	assert.Equal(t, byte(1), conf.CommandPush.QoS)
	assert.Equal(t, "/certs/ca.crt", conf.CommandPush.CACertificateFile)

	assert.Equal(t, "/metrics", conf.Metrics.Path)

	require.Len(t, conf.SeedUsers, 2)
	assert.Equal(t, "dispatcher", conf.SeedUsers[1].Username)
	assert.Equal(t, models.UserRoleUser, conf.SeedUsers[1].Role)
}
