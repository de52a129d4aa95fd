package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.False(t, cfg.Server.IsProduction())
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "public", cfg.Database.Schema)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.NoError(t, cfg.Validate())
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := strings.Join([]string{
		"SERVER_PORT=9090",
		"DB_DRIVER=SQLite",
		"DB_DATABASE=catalog.db",
		"CORS_ALLOWED_ORIGINS=https://gaiamare.example, https://admin.gaiamare.example",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// godotenv never overrides variables already set, so clear them afterwards
	t.Cleanup(func() {
		for _, k := range []string{"SERVER_PORT", "DB_DRIVER", "DB_DATABASE", "CORS_ALLOWED_ORIGINS"} {
			os.Unsetenv(k)
		}
	})

	cfg := Load(path)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "catalog.db", cfg.Database.DSN())
	assert.Equal(t, []string{"https://gaiamare.example", "https://admin.gaiamare.example"}, cfg.Server.AllowedOrigins)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("built from parts", func(t *testing.T) {
		d := DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "db",
			Port:     "5432",
			User:     "gaia",
			Password: "p@ss",
			Database: "gaiamare",
			Schema:   "public",
			SSLMode:  "disable",
		}
		assert.Equal(t, "postgres://gaia:p%40ss@db:5432/gaiamare?search_path=public&sslmode=disable", d.DSN())
	})

	t.Run("connection string wins", func(t *testing.T) {
		d := DatabaseConfig{Driver: DriverPostgres, Host: "ignored", ConnectionString: "postgres://x@y/z"}
		assert.Equal(t, "postgres://x@y/z", d.DSN())
	})

	t.Run("sqlite defaults to memory", func(t *testing.T) {
		d := DatabaseConfig{Driver: DriverSQLite}
		assert.Equal(t, "file::memory:", d.DSN())
	})
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	cfg.Database.Driver = "oracle"
	cfg.Server.Port = "http"
	cfg.Server.LogLevel = "verbose"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.Database.Driver (oneof)")
	assert.Contains(t, err.Error(), "Config.Server.Port (numeric)")
	assert.Contains(t, err.Error(), "Config.Server.LogLevel (oneof)")
}
