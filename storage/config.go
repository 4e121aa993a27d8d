package storage

import (
	"errors"
	"fmt"
)

const (
	ProviderAzure = "azure"
	ProviderS3    = "s3"
	ProviderLocal = "local"
)

const (
	DefaultProvider  = ProviderAzure
	DefaultContainer = "conversations"
	DefaultBasePath  = "./data/blobs"
	DefaultRegion    = "us-east-1"
)

// Config holds blob store configuration. Container names the Azure
// container, the S3 bucket, or the sub-directory of BasePath.
type Config struct {
	Provider  string `mapstructure:"provider" json:"provider"`
	Container string `mapstructure:"container" json:"container"`

	// ConnectionString is the Azure storage account connection string.
	ConnectionString string `mapstructure:"connection_string" json:"-"`

	// BasePath is the root directory for the local provider.
	BasePath string `mapstructure:"base_path" json:"base_path"`

	// S3 settings. Endpoint points at an S3-compatible service such as MinIO.
	Region         string `mapstructure:"region" json:"region"`
	Endpoint       string `mapstructure:"endpoint" json:"endpoint"`
	AccessKey      string `mapstructure:"access_key" json:"-"`
	SecretKey      string `mapstructure:"secret_key" json:"-"`
	ForcePathStyle bool   `mapstructure:"force_path_style" json:"force_path_style"`
}

func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Container == "" {
		c.Container = DefaultContainer
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
}

// Validate checks the settings required by the selected provider.
func (c *Config) Validate() error {
	var errs []error
	if c.Container == "" {
		errs = append(errs, errors.New("container is required"))
	}
	switch c.Provider {
	case ProviderAzure:
		if c.ConnectionString == "" {
			errs = append(errs, errors.New("connection_string is required for azure provider"))
		}
	case ProviderS3:
		if c.Region == "" {
			errs = append(errs, errors.New("region is required for s3 provider"))
		}
		if (c.AccessKey == "") != (c.SecretKey == "") {
			errs = append(errs, errors.New("access_key and secret_key must be set together"))
		}
	case ProviderLocal:
		if c.BasePath == "" {
			errs = append(errs, errors.New("base_path is required for local provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported provider %q", c.Provider))
	}
	if len(errs) > 0 {
		return fmt.Errorf("storage: invalid config: %w", errors.Join(errs...))
	}
	return nil
}
