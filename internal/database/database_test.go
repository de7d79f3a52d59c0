package database

import (
	"context"
	"testing"

	"github.com/gdg-garage/trip-planner-api/internal/config"
	"github.com/gdg-garage/trip-planner-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDialector(t *testing.T) {
	t.Run("Sqlite", func(t *testing.T) {
		d, err := Dialector(&config.Config{DatabaseDriver: "sqlite", DatabasePath: ":memory:"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Name() != "sqlite" {
			t.Errorf("expected sqlite dialector, got %s", d.Name())
		}
	})

	t.Run("PostgresWithoutDSN", func(t *testing.T) {
		if _, err := Dialector(&config.Config{DatabaseDriver: "postgres"}); err == nil {
			t.Fatal("expected error for missing DSN")
		}
	})

	t.Run("PostgresWithDSN", func(t *testing.T) {
		d, err := Dialector(&config.Config{DatabaseDriver: "postgres", DatabaseDSN: "host=localhost user=postgres dbname=trips"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Name() != "postgres" {
			t.Errorf("expected postgres dialector, got %s", d.Name())
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		if _, err := Dialector(&config.Config{DatabaseDriver: "mysql"}); err == nil {
			t.Fatal("expected error for unsupported driver")
		}
	})
}

func TestMigrateAndPing(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !db.Migrator().HasTable(&models.Checklist{}) {
		t.Error("expected checklist_items table to exist")
	}
	if err := Ping(context.Background(), db); err != nil {
		t.Errorf("ping failed: %v", err)
	}
}
