// Package databasetest provides migrated stores for tests: an in-memory
// sqlite database and a throwaway postgres container.
package databasetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gaia-mare/internal/config"
	"gaia-mare/internal/database"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// NewSQLite returns a migrated in-memory sqlite store, closed when the test ends.
func NewSQLite(t *testing.T) *database.Service {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver:           config.DriverSQLite,
		ConnectionString: fmt.Sprintf("file:%s?mode=memory&cache=private", sanitize(t.Name())),
	}
	return open(t, cfg, zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)))
}

// NewPostgres starts a postgres container, applies the SQL migrations and
// returns the store. The test is skipped in -short mode or when no
// container runtime is available.
func NewPostgres(t *testing.T) *database.Service {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	var (
		dbName = "gaiamare"
		dbPwd  = "password"
		dbUser = "user"
	)

	ctx := context.Background()
	container, err := postgres.Run(
		ctx,
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("could not start postgres container: %v", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("could not get connection string: %v", err)
	}

	cfg := config.DatabaseConfig{
		Driver:           config.DriverPostgres,
		ConnectionString: connStr,
		MaxOpenConns:     5,
		MaxIdleConns:     2,
		ConnMaxLifetime:  time.Minute,
	}
	return open(t, cfg, zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)))
}

func open(t *testing.T, cfg config.DatabaseConfig, logger *zap.Logger) *database.Service {
	t.Helper()

	svc, err := database.New(cfg, logger)
	if err != nil {
		t.Fatalf("could not open database: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })

	if err := database.RunMigrations(context.Background(), svc, logger); err != nil {
		t.Fatalf("could not migrate database: %v", err)
	}
	return svc
}

func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
