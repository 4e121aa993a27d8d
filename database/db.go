package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/recorder/logger"
)

// DB is an open record store connection.
type DB struct {
	GormDB *gorm.DB
	Driver string

	log       *logger.Logger
	closeOnce sync.Once
	closeErr  error
}

// New connects to cfg.DSN, retrying with a linear backoff until
// cfg.MaxRetries attempts have failed or ctx is done.
func New(ctx context.Context, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	dialector, driver := Dialector(cfg.DSN)
	slow, _ := time.ParseDuration(cfg.SlowQueryThreshold)
	gormCfg := &gorm.Config{Logger: newGormLogger(log, slow, parseLogLevel(cfg.LogLevel))}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		gdb, err := connect(ctx, dialector, gormCfg)
		if err == nil {
			configurePool(gdb, cfg, driver)
			log.Info("database connected", logger.Fields("driver", driver, "attempt", attempt))
			return &DB{GormDB: gdb, Driver: driver, log: log}, nil
		}
		lastErr = err
		if attempt == cfg.MaxRetries {
			break
		}

		wait := time.Duration(attempt) * time.Second
		log.Warn("database not reachable, retrying", logger.Fields(
			"attempt", attempt,
			"wait", wait.String(),
			logger.FieldError, err.Error(),
		))
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("database connect: %w", ctx.Err())
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("database connect: giving up after %d attempts: %w", cfg.MaxRetries, lastErr)
}

func connect(ctx context.Context, d gorm.Dialector, gormCfg *gorm.Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(d, gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return gdb, nil
}

// configurePool applies the pool limits. SQLite gets a single connection so
// concurrent writers queue instead of failing with "database is locked".
func configurePool(gdb *gorm.DB, cfg Config, driver string) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return
	}
	if driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	if d, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
		sqlDB.SetConnMaxLifetime(d)
	}
	if d, err := time.ParseDuration(cfg.ConnMaxIdleTime); err == nil {
		sqlDB.SetConnMaxIdleTime(d)
	}
}

// Close releases the pool. Later calls return the first result.
func (d *DB) Close() error {
	d.closeOnce.Do(func() {
		sqlDB, err := d.GormDB.DB()
		if err != nil {
			d.closeErr = err
			return
		}
		d.log.Info("database connection closed")
		d.closeErr = sqlDB.Close()
	})
	return d.closeErr
}

func (d *DB) PingContext(ctx context.Context) error {
	sqlDB, err := d.GormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// WithContext returns a session bound to ctx.
func (d *DB) WithContext(ctx context.Context) *gorm.DB {
	return d.GormDB.WithContext(ctx)
}

// WithTransaction commits when fn returns nil and rolls back otherwise,
// including when fn panics.
func (d *DB) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.GormDB.WithContext(ctx).Transaction(fn)
}
