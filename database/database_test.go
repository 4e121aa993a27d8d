package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/kbukum/recorder/component"
	apperrors "github.com/kbukum/recorder/errors"
)

func memoryDSN(t *testing.T) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
}

func TestDialector(t *testing.T) {
	tests := []struct {
		dsn        string
		wantDriver string
	}{
		{"postgres://u:p@localhost:5432/db", DriverPostgres},
		{"postgresql://localhost/db", DriverPostgres},
		{"sqlite:///./app.db", DriverSQLite},
		{"./local.db", DriverSQLite},
		{"", DriverSQLite},
	}
	for _, tt := range tests {
		if _, got := Dialector(tt.dsn); got != tt.wantDriver {
			t.Errorf("Dialector(%q) driver = %q, want %q", tt.dsn, got, tt.wantDriver)
		}
	}
}

func TestSQLitePath(t *testing.T) {
	tests := map[string]string{
		"sqlite:///./app.db": "./app.db",
		"sqlite:///tmp/x.db": "tmp/x.db",
		"sqlite://":          "./app.db",
		"file::memory:":      "file::memory:",
		"":                   "./app.db",
	}
	for in, want := range tests {
		if got := sqlitePath(in); got != want {
			t.Errorf("sqlitePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{MaxOpenConns: 2, MaxIdleConns: 5}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for idle > open")
	}

	cfg = Config{ConnMaxLifetime: "forever"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "conn_max_lifetime") {
		t.Errorf("expected lifetime error, got %v", err)
	}

	cfg = Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if cfg.DSN != DefaultDSN {
		t.Errorf("dsn default = %q", cfg.DSN)
	}
}

type widget struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func TestComponentMigratesOnStart(t *testing.T) {
	ctx := context.Background()
	c := NewComponent(Config{DSN: memoryDSN(t), AutoMigrate: true, LogLevel: "silent"}, nil).
		WithMigrations(Migration{
			ID:          "0001_widgets",
			Description: "create widgets",
			Up:          func(tx *gorm.DB) error { return tx.AutoMigrate(&widget{}) },
		})

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _ = c.Stop(ctx) }()

	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("health = %s (%s)", h.Status, h.Message)
	}
	if !c.DB().GormDB.Migrator().HasTable(&widget{}) {
		t.Fatal("widgets table missing")
	}
	if d := c.Describe(); d.Details != "driver=sqlite auto-migrate=on" {
		t.Errorf("details = %q", d.Details)
	}

	applied, err := NewRunner(c.DB().GormDB, nil, Migration{ID: "0001_widgets", Up: func(*gorm.DB) error {
		t.Error("migration applied twice")
		return nil
	}}).Run(ctx)
	if err != nil || len(applied) != 0 {
		t.Errorf("second run applied %v, err %v", applied, err)
	}
}

func TestRunnerRollsBackFailedMigration(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx, Config{DSN: memoryDSN(t), LogLevel: "silent"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()

	boom := errors.New("boom")
	r := NewRunner(db.GormDB, nil, Migration{ID: "0001_bad", Up: func(*gorm.DB) error { return boom }})
	if _, err := r.Run(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	var count int64
	db.GormDB.Model(&schemaMigration{}).Count(&count)
	if count != 0 {
		t.Errorf("failed migration was recorded")
	}
}

func TestWithTransactionRollback(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx, Config{DSN: memoryDSN(t), LogLevel: "silent"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()
	if err := db.GormDB.AutoMigrate(&widget{}); err != nil {
		t.Fatal(err)
	}

	err = db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&widget{ID: "w1", Name: "a"}).Error; err != nil {
			return err
		}
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var count int64
	db.GormDB.Model(&widget{}).Count(&count)
	if count != 0 {
		t.Errorf("rows after rollback = %d", count)
	}
}

func TestFromDatabase(t *testing.T) {
	if FromDatabase(nil, "conversation", "1", "update") != nil {
		t.Error("nil error should map to nil")
	}
	if err := FromDatabase(gorm.ErrRecordNotFound, "conversation", "1", "get"); err.Code != apperrors.ErrCodeNotFound || err.Message != "Conversation not found" {
		t.Errorf("not found mapping = %+v", err)
	}
	if err := FromDatabase(errors.New("dial tcp: connection refused"), "conversation", "1", "get"); err.Code != apperrors.ErrCodeServiceUnavailable {
		t.Errorf("connection mapping = %s", err.Code)
	}
	if err := FromDatabase(errors.New("constraint failed"), "conversation", "1", "update"); err.Code != apperrors.ErrCodePersistenceFailed {
		t.Errorf("generic mapping = %s", err.Code)
	}
}
