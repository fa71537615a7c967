// Package dbtest opens throwaway catalog databases for tests.
package dbtest

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"quadramall/apienvelope/internal/db"
)

// New returns a migrated in-memory SQLite database. The pool is capped at one
// connection because every new :memory: connection starts empty.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenORM(sqlite.Open(":memory:"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return gdb
}

// NewSQLX returns a sqlx handle sharing gdb's pool.
func NewSQLX(t testing.TB, gdb *gorm.DB) *sqlx.DB {
	t.Helper()

	sdb, err := db.FromORM(gdb, "sqlite3")
	if err != nil {
		t.Fatalf("Failed to wrap GORM pool: %v", err)
	}
	return sdb
}
