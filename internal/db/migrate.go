package db

import (
	"context"
	"embed"
	"fmt"

	"moim-app-go/internal/config"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded goose migrations on postgres. sqlite has no
// goose dialect quirks worth carrying for dev and tests, so the models are
// auto-migrated instead.
func Migrate(ctx context.Context, conn *gorm.DB, driver string, models ...any) error {
	if driver == config.DriverSQLite {
		if err := conn.WithContext(ctx).AutoMigrate(models...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}
	return RunGoose(ctx, conn, "up")
}

// RunGoose executes a goose command (up, down, status, redo, version) against
// the embedded migrations.
func RunGoose(ctx context.Context, conn *gorm.DB, command string, args ...string) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, sqlDB, migrationsDir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
