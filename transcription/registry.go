package transcription

import (
	"fmt"

	"github.com/kbukum/recorder/provider"
)

var defaultRegistry = NewRegistry()

// NewRegistry creates an empty registry of transcription backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}

// DefaultRegistry is the registry backends add themselves to from init.
func DefaultRegistry() *provider.Registry[Provider] {
	return defaultRegistry
}

// Register adds a backend factory to the default registry.
func Register(name string, factory provider.Factory[Provider]) {
	defaultRegistry.RegisterFactory(name, factory)
}

// New builds the configured backend from reg, or the default registry when
// reg is nil. Missing credentials surface here, at startup.
func New(cfg Config, reg *provider.Registry[Provider]) (Provider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = defaultRegistry
	}
	p, err := reg.Create(cfg.Provider, cfg.ProviderOptions())
	if err != nil {
		return nil, fmt.Errorf("transcription: %w", err)
	}
	return p, nil
}
