// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"testing"

	"academy/internal/app/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database that lives for the test.
// A single connection keeps every query on the same memory database.
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := repository.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// NewRepository is NewDB wrapped in a Repository
func NewRepository(tb testing.TB) *repository.Repository {
	return repository.NewWithDB(NewDB(tb))
}
