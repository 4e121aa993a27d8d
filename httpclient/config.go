package httpclient

import (
	"errors"
	"net/url"
	"time"
)

const defaultTimeout = 60 * time.Second

// Config configures a Client.
type Config struct {
	// BaseURL is joined with relative request paths.
	BaseURL string
	Timeout time.Duration
	// Headers are sent with every request. Credentials usually go here.
	Headers map[string]string
}

func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("httpclient: base url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("httpclient: base url must be absolute")
	}
	return nil
}
