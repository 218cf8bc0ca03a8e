// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-animal-go/pkg/database"
)

// SQLiteConfig points at a fresh database file under t.TempDir().
func SQLiteConfig(t testing.TB) database.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "animal-test.db")
	return database.Config{
		Driver:       database.DriverSQLite,
		DSN:          "file:" + path + "?_pragma=busy_timeout(5000)",
		MaxConns:     4,
		Timeout:      5 * time.Second,
		QueryTimeout: 5 * time.Second,
		AutoMigrate:  true,
	}
}

// AcquireDB opens a migrated sqlite database that is closed when the test
// ends.
func AcquireDB(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := database.Connect(SQLiteConfig(t))
	if err != nil {
		t.Fatalf("connect test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(context.Background(), db, database.DriverSQLite, zap.NewNop().Sugar()); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}
