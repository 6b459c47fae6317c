package database

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskvault/taskvault/internal/logger"
)

func newMigrationTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	cfg := Config{DSN: dsn, MaxRetries: 1, LogLevel: "silent"}
	db, err := New(cfg, logger.NewDefault("test"), sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationRunnerAppliesOnce(t *testing.T) {
	db := newMigrationTestDB(t)
	log := logger.NewDefault("test")

	applied := 0
	migration := Migration{
		ID:          "001_widgets",
		Description: "create widgets table",
		Up: func(tx *gorm.DB) error {
			applied++
			return tx.Exec("CREATE TABLE widgets (id INTEGER PRIMARY KEY)").Error
		},
	}

	runner := NewMigrationRunner(db.GormDB, log)
	runner.AddMigration(migration)
	if err := runner.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	if applied != 1 {
		t.Errorf("expected 1 application, got %d", applied)
	}

	// A fresh runner over the same database skips the recorded migration.
	again := NewMigrationRunner(db.GormDB, log)
	again.AddMigration(migration)
	if err := again.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations (second pass): %v", err)
	}
	if applied != 1 {
		t.Errorf("migration should not reapply, got %d applications", applied)
	}
}

func TestMigrationRunnerRollsBackOnFailure(t *testing.T) {
	db := newMigrationTestDB(t)
	log := logger.NewDefault("test")

	runner := NewMigrationRunner(db.GormDB, log)
	runner.AddMigration(Migration{
		ID:          "001_broken",
		Description: "fails midway",
		Up: func(tx *gorm.DB) error {
			if err := tx.Exec("CREATE TABLE gadgets (id INTEGER PRIMARY KEY)").Error; err != nil {
				return err
			}
			return errors.New("boom")
		},
	})

	if err := runner.RunMigrations(); err == nil {
		t.Fatal("expected migration failure")
	}

	// The failed migration must not be recorded as applied.
	var count int64
	if err := db.GormDB.Table("schema_migrations").Where("id = ?", "001_broken").Count(&count).Error; err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 0 {
		t.Error("failed migration should not be recorded")
	}
}
