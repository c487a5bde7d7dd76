package config

type HTTPProtocol string

const (
	HTTPS HTTPProtocol = "https"
	HTTP  HTTPProtocol = "http"
)

// HttpServer is the configuration for the HTTP server
type HttpServer struct {
	LogLevel           LogLevel                `mapstructure:"log_level"`
	HealthCheckLogging bool                    `mapstructure:"health_check"`
	ListenAddress      string                  `mapstructure:"listen_address"`
	Port               int                     `mapstructure:"port"`
	Protocol           HTTPProtocol            `mapstructure:"protocol"`
	CertFile           string                  `mapstructure:"cert_file"`
	KeyFile            string                  `mapstructure:"key_file"`
	Authorization      HttpServerAuthorization `mapstructure:"authorization"`
}

// HttpServerAuthorization controls how the trusted actor headers set by the
// fronting authentication proxy are interpreted.
type HttpServerAuthorization struct {
	Enforce    bool   `mapstructure:"enforce"`
	RoleHeader string `mapstructure:"role_header"`
	IDHeader   string `mapstructure:"id_header"`
}
