package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"gaia-mare/internal/config"
	"gaia-mare/internal/domain"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsFS returns the embedded SQL migrations rooted at the migrations directory.
func MigrationsFS() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(fmt.Sprintf("embedded migrations missing: %v", err))
	}
	return sub
}

// MigrationState describes one migration for status reporting.
type MigrationState struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

// RunMigrations executes all pending database migrations. Postgres is
// migrated with the embedded SQL files; sqlite schemas are derived from
// the models.
func RunMigrations(ctx context.Context, svc *Service, logger *zap.Logger) error {
	if svc.driver == config.DriverSQLite {
		logger.Info("Auto-migrating sqlite schema")
		if err := svc.db.WithContext(ctx).AutoMigrate(&domain.Product{}, &domain.InventoryItem{}, &domain.Sale{}); err != nil {
			logger.Error("Failed to auto-migrate schema", zap.Error(err))
			return fmt.Errorf("failed to auto-migrate schema: %w", err)
		}
		return nil
	}

	provider, err := newProvider(svc)
	if err != nil {
		return err
	}

	logger.Info("Checking for pending migrations...")

	results, err := provider.Up(ctx)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, r := range results {
		logger.Info("Applied migration",
			zap.Int64("version", r.Source.Version),
			zap.String("path", r.Source.Path),
			zap.Duration("duration", r.Duration),
		)
	}

	logger.Info("Migrations completed successfully", zap.Int("applied", len(results)))
	return nil
}

// GetMigrationStatus returns the current migration status
func GetMigrationStatus(ctx context.Context, svc *Service) ([]MigrationState, error) {
	if svc.driver == config.DriverSQLite {
		return nil, fmt.Errorf("sqlite schemas are managed by auto-migration and carry no version history")
	}

	provider, err := newProvider(svc)
	if err != nil {
		return nil, err
	}

	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	out := make([]MigrationState, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationState{
			Version:   s.Source.Version,
			Path:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}

func newProvider(svc *Service) (*goose.Provider, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, svc.sqlDB, MigrationsFS())
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}
