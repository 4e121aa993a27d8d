package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/recorder/component"
	"github.com/kbukum/recorder/logger"
)

const (
	// probeKey is looked up, never written, by health checks.
	probeKey     = ".health"
	probeTimeout = 5 * time.Second
	// probeTTL bounds how often health checks reach the backend.
	probeTTL = 15 * time.Second
)

// Component owns the configured backend for the life of the process.
type Component struct {
	cfg Config
	log *logger.Logger

	mu        sync.Mutex
	backend   Storage
	lastProbe time.Time
	lastErr   error
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Component{cfg: cfg, log: log.WithComponent("storage")}
}

// Storage returns the backend. It is nil until Start succeeds.
func (c *Component) Storage() Storage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend
}

func (c *Component) Name() string { return "storage" }

// Start builds the backend. The Azure backend creates its container here.
func (c *Component) Start(ctx context.Context) error {
	b, err := New(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.mu.Lock()
	c.backend = b
	c.mu.Unlock()
	c.log.Info("blob store ready", logger.Fields("provider", c.cfg.Provider, "container", c.cfg.Container))
	return nil
}

func (c *Component) Stop(context.Context) error {
	c.mu.Lock()
	c.backend = nil
	c.mu.Unlock()
	return nil
}

// Health reports degraded, not unhealthy, when the backend is unreachable:
// ingestion keeps transcribing without it.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.backend == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	if time.Since(c.lastProbe) >= probeTTL {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		_, c.lastErr = c.backend.Exists(probeCtx, probeKey)
		cancel()
		c.lastProbe = time.Now()
	}
	if c.lastErr != nil {
		return component.Health{Name: c.Name(), Status: component.StatusDegraded, Message: c.lastErr.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Blob store",
		Type:    c.cfg.Provider,
		Details: "container=" + c.cfg.Container,
	}
}
