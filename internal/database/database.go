package database

import (
	"context"
	"fmt"
	stdlog "log"
	"time"

	"github.com/gdg-garage/trip-planner-api/internal/config"
	"github.com/gdg-garage/trip-planner-api/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) *gorm.DB {
	dialector, err := Dialector(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid database configuration")
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger()})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("Failed to connect to database")
	}

	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto migrate")
	}

	return db
}

func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DatabaseDriver {
	case "", "sqlite":
		return sqlite.Open(cfg.DatabasePath), nil
	case "postgres":
		if cfg.DatabaseDSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required for the postgres driver")
		}
		return postgres.Open(cfg.DatabaseDSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// Ping reports whether the underlying connection answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func newGormLogger() gormLogger.Interface {
	return gormLogger.New(
		stdlog.New(log.Logger, "", 0),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
