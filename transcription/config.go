package transcription

import (
	"errors"
	"fmt"
)

const (
	DefaultProvider = "azure"
	DefaultLanguage = "en-US"
)

// Config selects the backend and carries per-backend options.
type Config struct {
	Provider string `mapstructure:"provider" json:"provider"`
	Language string `mapstructure:"language" json:"language"`
	// Providers holds options keyed by backend name. Only the selected
	// backend's section is passed to its factory.
	Providers map[string]map[string]any `mapstructure:"providers" json:"-"`
}

func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Provider == "" {
		errs = append(errs, errors.New("provider is required"))
	}
	if c.Language == "" {
		errs = append(errs, errors.New("language is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("transcription: invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ProviderOptions returns a copy of the selected backend's options with the
// shared language filled in when the section does not set its own.
func (c *Config) ProviderOptions() map[string]any {
	opts := make(map[string]any, len(c.Providers[c.Provider])+1)
	for k, v := range c.Providers[c.Provider] {
		opts[k] = v
	}
	if _, ok := opts["language"]; !ok && c.Language != "" {
		opts["language"] = c.Language
	}
	return opts
}
