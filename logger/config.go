package logger

import (
	"errors"
	"fmt"
	"slices"
)

// Output and format values accepted by Config.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
	OutputStdout  = "stdout"
	OutputStderr  = "stderr"
)

// Config contains logging configuration.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	// Output is stdout, stderr or a file path opened in append mode.
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = OutputStdout
	}
	c.Timestamp = true
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	var errs []error
	levels := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if !slices.Contains(levels, c.Level) {
		errs = append(errs, fmt.Errorf("logging.level must be one of %v (got: %s)", levels, c.Level))
	}
	formats := []string{FormatJSON, FormatConsole}
	if !slices.Contains(formats, c.Format) {
		errs = append(errs, fmt.Errorf("logging.format must be one of %v (got: %s)", formats, c.Format))
	}
	return errors.Join(errs...)
}
