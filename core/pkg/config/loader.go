package config

import (
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	ConfigFileEnvVar  = "GEOTRACK_CONFIG_FILE"
	DefaultConfigPath = "/etc/geotrack/config.yml"
)

func readConfig[E any](configFilePath string, defaults *E) (*E, error) {
	vp := viper.New()

	if defaults != nil {
		defaultsMap := map[string]interface{}{}
		if err := mapstructure.Decode(defaults, &defaultsMap); err != nil {
			return nil, fmt.Errorf("could not decode config defaults: %w", err)
		}

		setDefaults(vp, "", defaultsMap)
	}

	// viper does not return ConfigFileNotFoundError when SetConfigFile is used,
	// a missing file surfaces as a generic read error.
	vp.SetConfigFile(configFilePath)
	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error while processing config file: %w", err)
	}

	var config E
	err := vp.Unmarshal(&config, func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	return &config, nil
}

// setDefaults flattens nested defaults into dotted viper keys so that a config
// file overriding one nested field keeps the defaults of its siblings.
func setDefaults(vp *viper.Viper, prefix string, values map[string]interface{}) {
	for key, value := range values {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case nil:
			continue
		case map[string]interface{}:
			setDefaults(vp, fullKey, v)
		case string:
			if v != "" {
				vp.SetDefault(fullKey, v)
			}
		default:
			vp.SetDefault(fullKey, v)
		}
	}
}

func LoadConfig[E any](defaults *E) (*E, error) {
	var err error
	var conf *E

	configFileEnv := os.Getenv(ConfigFileEnvVar)
	loadStandardPaths := true

	if configFileEnv != "" {
		loadStandardPaths = false
		log.Infof("loading config file from %s", configFileEnv)
		conf, err = readConfig[E](configFileEnv, defaults)

		if err != nil {
			log.Warnf("failed to load config file specified in ENV '%s' variable. will try to load from standard paths: %s", ConfigFileEnvVar, err)
			loadStandardPaths = true
		}
	} else {
		log.Infof("ENV '%s' variable not set, will try to load from standard paths", ConfigFileEnvVar)
	}

	if loadStandardPaths {
		conf, err = readConfig[E](DefaultConfigPath, defaults)
	}
	if err != nil {
		return nil, err
	}

	return conf, nil
}
