// Package migrate runs the embedded goose migrations for the snapshot
// database.
package migrate

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Up applies all pending migrations against the provided GORM connection.
func Up(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db connection is required")
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("getting sql db handle: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// MaybeRunDev applies migrations automatically when the auto-migrate flag
// is set; production deployments run them explicitly instead.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, conn *gorm.DB) error {
	if cfg == nil || !cfg.Snapshot.AutoMigrate {
		return nil
	}
	if logg != nil {
		logg.Info(ctx, "running snapshot migrations")
	}
	return Up(ctx, conn)
}
