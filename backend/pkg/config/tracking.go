package config

import (
	"time"

	cconfig "github.com/geotrackio/geotrack/core/pkg/config"
	"github.com/geotrackio/geotrack/core/pkg/models"
)

type TrackingConfig struct {
	Logs              cconfig.Logging                `mapstructure:"logs"`
	Server            cconfig.HttpServer             `mapstructure:"server"`
	PublisherEventBus cconfig.EventBusEngine         `mapstructure:"publisher_event_bus"`
	Storage           cconfig.PluggableStorageEngine `mapstructure:"storage"`
	Stream            StreamConfig                   `mapstructure:"stream"`
	Monitoring        MonitoringConfig               `mapstructure:"monitoring"`
	CommandPush       CommandPushConfig              `mapstructure:"command_push"`
	Metrics           MetricsConfig                  `mapstructure:"metrics"`
	SeedUsers         []SeedUser                     `mapstructure:"seed_users"`
}

// SeedUser is created at startup when no user with that username exists.
type SeedUser struct {
	Username string          `mapstructure:"username"`
	Role     models.UserRole `mapstructure:"role"`
}

type StreamConfig struct {
	LogLevel          cconfig.LogLevel `mapstructure:"log_level"`
	HeartbeatInterval time.Duration    `mapstructure:"heartbeat_interval"`
	// WriteTimeout bounds every write to a subscriber. A subscriber that
	// cannot be written to within it is evicted.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type MonitoringConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Frequency  string        `mapstructure:"frequency"`
	StaleAfter time.Duration `mapstructure:"stale_after"`
}

type CommandPushConfig struct {
	LogLevel       cconfig.LogLevel `mapstructure:"log_level"`
	Enabled        bool             `mapstructure:"enabled"`
	Broker         string           `mapstructure:"broker"`
	ClientID       string           `mapstructure:"client_id"`
	Username       string           `mapstructure:"username"`
	Password       cconfig.Password `mapstructure:"password"`
	TopicPrefix    string           `mapstructure:"topic_prefix"`
	QoS            byte             `mapstructure:"qos"`
	PublishTimeout time.Duration    `mapstructure:"publish_timeout"`

	cconfig.TLSConfig `mapstructure:",squash"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

var TrackingDefaultConfig = TrackingConfig{
	Logs: cconfig.Logging{
		Level: cconfig.Info,
	},
	Server: cconfig.HttpServer{
		LogLevel:           cconfig.Info,
		HealthCheckLogging: false,
		ListenAddress:      "0.0.0.0",
		Port:               8085,
		Protocol:           cconfig.HTTP,
		Authorization: cconfig.HttpServerAuthorization{
			Enforce:    true,
			RoleHeader: "X-Geotrack-Actor-Role",
			IDHeader:   "X-Geotrack-Actor-Id",
		},
	},
	PublisherEventBus: cconfig.EventBusEngine{
		LogLevel: cconfig.Info,
		Enabled:  false,
		Provider: cconfig.Channel,
	},
	Storage: cconfig.PluggableStorageEngine{
		LogLevel: cconfig.Info,
		Provider: cconfig.SQLite,
		SQLite: cconfig.SQLitePSEConfig{
			DatabasePath: "geotrack.db",
		},
	},
	Stream: StreamConfig{
		LogLevel:          cconfig.Info,
		HeartbeatInterval: 30 * time.Second,
		WriteTimeout:      10 * time.Second,
	},
	Monitoring: MonitoringConfig{
		Enabled:    true,
		Frequency:  "@every 5m",
		StaleAfter: 10 * time.Minute,
	},
	CommandPush: CommandPushConfig{
		LogLevel:       cconfig.Info,
		Enabled:        false,
		ClientID:       "geotrack-tracking",
		TopicPrefix:    "geotrack",
		QoS:            1,
		PublishTimeout: 5 * time.Second,
	},
	Metrics: MetricsConfig{
		Enabled: true,
		Path:    "/metrics",
	},
	SeedUsers: []SeedUser{
		{Username: "admin", Role: models.UserRoleAdmin},
	},
}
