// Package migrationtest opens throwaway in-memory databases with the real
// schema applied.
package migrationtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/corte/internal/config"
	"github.com/smallbiznis/corte/internal/migration"
	"github.com/smallbiznis/corte/internal/seed"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB returns a migrated and seeded database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection keeps the shared in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migration.RunMigrations(sqlDB, config.DBTypeSQLite); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := seed.EnsureThresholds(context.Background(), db); err != nil {
		t.Fatalf("seed thresholds: %v", err)
	}
	return db
}
