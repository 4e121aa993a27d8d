package database

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/recorder/component"
	"github.com/kbukum/recorder/logger"
)

// Component manages the database connection lifecycle.
type Component struct {
	db         *DB
	cfg        Config
	log        *logger.Logger
	migrations []Migration
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Component{cfg: cfg, log: log.WithComponent("database")}
}

// WithMigrations registers migrations applied on Start when AutoMigrate is set.
func (c *Component) WithMigrations(migrations ...Migration) *Component {
	c.migrations = append(c.migrations, migrations...)
	return c
}

// DB returns the connection, or nil before Start.
func (c *Component) DB() *DB {
	return c.db
}

func (c *Component) Name() string { return "database" }

func (c *Component) Start(ctx context.Context) error {
	db, err := New(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	c.db = db

	if c.cfg.AutoMigrate && len(c.migrations) > 0 {
		if _, err := NewRunner(db.GormDB, c.log, c.migrations...).Run(ctx); err != nil {
			return fmt.Errorf("database migrate: %w", err)
		}
	}
	return nil
}

func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	if c.db == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "database not initialized"}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.db.PingContext(ctx); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: fmt.Sprintf("ping failed: %v", err)}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// IsAvailable reports whether the connection answers a ping.
func (c *Component) IsAvailable(ctx context.Context) bool {
	return c.db != nil && c.db.PingContext(ctx) == nil
}

func (c *Component) Describe() component.Description {
	_, driver := Dialector(c.cfg.DSN)
	if c.db != nil {
		driver = c.db.Driver
	}
	details := "driver=" + driver
	if c.cfg.AutoMigrate {
		details += " auto-migrate=on"
	}
	return component.Description{Name: "Database", Type: "database", Details: details}
}
