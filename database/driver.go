package database

import (
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Dialector picks the GORM driver for dsn and returns it with the driver name.
func Dialector(dsn string) (gorm.Dialector, string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn), DriverPostgres
	default:
		return sqlite.Open(sqlitePath(dsn)), DriverSQLite
	}
}

// sqlitePath strips URL-style prefixes: "sqlite:///./app.db" becomes "./app.db".
func sqlitePath(dsn string) string {
	for _, prefix := range []string{"sqlite:///", "sqlite://", "sqlite:"} {
		if strings.HasPrefix(dsn, prefix) {
			dsn = strings.TrimPrefix(dsn, prefix)
			break
		}
	}
	if dsn == "" {
		return "./app.db"
	}
	return dsn
}
