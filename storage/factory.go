package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/recorder/logger"
)

// Factory creates a Storage for a validated Config.
type Factory func(ctx context.Context, cfg Config, log *logger.Logger) (Storage, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// RegisterFactory makes a backend available to New. Backends call it from init.
func RegisterFactory(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// Providers lists the registered backend names.
func Providers() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New validates cfg and builds the selected backend.
func New(ctx context.Context, cfg Config, log *logger.Logger) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Provider]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: provider %q not registered (available: %v)", cfg.Provider, Providers())
	}

	l := log.WithComponent("storage")
	l.Info("initializing storage", map[string]interface{}{
		logger.FieldProvider: cfg.Provider,
		"container":          cfg.Container,
	})
	return f(ctx, cfg, l)
}
