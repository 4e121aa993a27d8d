package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/recorder/logger"
)

// Migration is one versioned schema change. IDs sort in apply order.
type Migration struct {
	ID          string
	Description string
	Up          func(tx *gorm.DB) error
}

type schemaMigration struct {
	ID        string    `gorm:"primaryKey;size:255"`
	AppliedAt time.Time `gorm:"not null"`
}

func (schemaMigration) TableName() string { return "schema_migrations" }

// Runner applies migrations not yet recorded in schema_migrations. Each
// migration and its record commit in one transaction.
type Runner struct {
	db         *gorm.DB
	log        *logger.Logger
	migrations []Migration
}

func NewRunner(db *gorm.DB, log *logger.Logger, migrations ...Migration) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{db: db, log: log, migrations: migrations}
}

// Add registers more migrations.
func (r *Runner) Add(migrations ...Migration) {
	r.migrations = append(r.migrations, migrations...)
}

// Run applies pending migrations in order and returns the IDs it applied.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	db := r.db.WithContext(ctx)
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	var applied []string
	for _, m := range r.migrations {
		var count int64
		if err := db.Model(&schemaMigration{}).Where("id = ?", m.ID).Count(&count).Error; err != nil {
			return applied, fmt.Errorf("check migration %s: %w", m.ID, err)
		}
		if count > 0 {
			r.log.Debug("migration already applied", map[string]interface{}{"id": m.ID})
			continue
		}

		r.log.Info("applying migration", map[string]interface{}{"id": m.ID, "description": m.Description})
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{ID: m.ID, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", m.ID, err)
		}
		applied = append(applied, m.ID)
	}
	return applied, nil
}
