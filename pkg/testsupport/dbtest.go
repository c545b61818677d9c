package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-parish/internal/migrations"
)

var dbCounter atomic.Int64

// NewSQLiteMemoryDB opens a private in-memory sqlite database with foreign
// keys enabled. Each call gets its own database.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	name := fmt.Sprintf("parish_test_%d", dbCounter.Add(1))
	return sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared&_fk=1")
}

// NewBunDB wraps a fresh in-memory database in bun and closes it with the
// test. A single connection keeps the memory database alive.
func NewBunDB(t testing.TB) *bun.DB {
	t.Helper()
	sqlDB, err := NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// NewMigratedDB returns a bun database with every migration applied.
func NewMigratedDB(t testing.TB) *bun.DB {
	t.Helper()
	db := NewBunDB(t)
	runner, err := migrations.NewRunner(db)
	if err != nil {
		t.Fatalf("migrations: %v", err)
	}
	if _, err := runner.Up(context.Background()); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

// CountRows returns the number of rows in table.
func CountRows(t testing.TB, db *bun.DB, table string) int {
	t.Helper()
	if strings.ContainsAny(table, " ;'\"") {
		t.Fatalf("invalid table name %q", table)
	}
	count, err := db.NewSelect().Table(table).Count(context.Background())
	if err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return count
}
