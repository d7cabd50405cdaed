package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Read loads config.yaml from the working directory, then applies environment
// overrides such as BACKEND_BASE_URL.
func Read() (Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Info().Msg("no config file found, continuing with env and defaults")
		} else {
			// Config file was found but another error was produced
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// every key needs a default for AutomaticEnv to pick up its override
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("backend.base_url", "http://127.0.0.1:8000")
	v.SetDefault("backend.timeout", "15s")
	v.SetDefault("locale", "fa")
	v.SetDefault("session.cookie_name", "portal_session")
	v.SetDefault("session.ttl", "12h")
	v.SetDefault("session.sweep_interval", "10m")
	v.SetDefault("session.secure", false)
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.sqlite.connection_string", "portal.db")
	v.SetDefault("database.firestore.project_id", "")
	v.SetDefault("database.firestore.credentials_file", "")
	v.SetDefault("database.firestore.session_collection_id", "sessions")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}
