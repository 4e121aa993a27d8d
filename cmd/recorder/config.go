package main

import (
	"errors"

	"github.com/kbukum/recorder/config"
	"github.com/kbukum/recorder/database"
	apperrors "github.com/kbukum/recorder/errors"
	"github.com/kbukum/recorder/observability"
	"github.com/kbukum/recorder/server"
	"github.com/kbukum/recorder/storage"
	"github.com/kbukum/recorder/transcription"
	"github.com/kbukum/recorder/version"
)

const serviceName = "recorder"

// envAliases keeps the flat variable names deployments already set.
var envAliases = map[string]string{
	"AZURE_SPEECH_KEY":                "transcription.providers.azure.key",
	"AZURE_SPEECH_REGION":             "transcription.providers.azure.region",
	"AZURE_STORAGE_CONNECTION_STRING": "storage.connection_string",
	"AZURE_STORAGE_CONTAINER_NAME":    "storage.container",
	"DATABASE_URL":                    "database.dsn",
	"PORT":                            "server.port",
}

// Config is the full service configuration.
type Config struct {
	config.ServiceConfig `mapstructure:",squash"`

	Server        server.Config        `mapstructure:"server"`
	Database      database.Config      `mapstructure:"database"`
	Storage       storage.Config       `mapstructure:"storage"`
	Transcription transcription.Config `mapstructure:"transcription"`
	Observability observability.Config `mapstructure:"observability"`
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Version
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate reports storage and speech problems as configuration errors so
// the process refuses to start without them.
func (c *Config) Validate() error {
	errs := []error{
		c.ServiceConfig.Validate(),
		c.Server.Validate(),
		c.Database.Validate(),
		c.Observability.Validate(),
	}
	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, apperrors.Configuration("storage", err))
	}
	if err := c.Transcription.Validate(); err != nil {
		errs = append(errs, apperrors.Configuration("speech", err))
	}
	return errors.Join(errs...)
}

func loadConfig() (*Config, error) {
	cfg := &Config{}
	opts := []config.LoaderOption{config.WithEnvAliases(envAliases)}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
