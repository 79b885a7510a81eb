// Package testutil builds throwaway databases for package tests.
package testutil

import (
	"testing"

	"github.com/ReviveFitness/RF-Backend/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory SQLite database that lives for the
// duration of the test. All queries share one connection so transactions
// and plain queries see the same in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	d, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open SQLite test database: %v", err)
	}

	sqlDB, err := d.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(d); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return d
}
