package main

import (
	"bytes"
	"context"
	"net"
	"testing"

	"gaia-mare/internal/config"
	"gaia-mare/internal/database/databasetest"
	"gaia-mare/internal/server"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()

	cfg := &config.Config{Redis: config.RedisConfig{Host: host, Port: port}}
	assert.Nil(t, newRedisClient(context.Background(), cfg, zap.NewNop()), "disabled rate limiting needs no client")

	cfg.RateLimit.Enabled = true
	client := newRedisClient(context.Background(), cfg, zap.NewNop())
	require.NotNil(t, client)
	client.Close()

	mr.Close()
	assert.Nil(t, newRedisClient(context.Background(), cfg, zap.NewNop()), "unreachable redis disables rate limiting")
}

func TestMigrateStatus_SQLiteHasNoHistory(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_CONNECTION_STRING", "file:cli_status?mode=memory&cache=private")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"migrate", "status", "--env-file", "does-not-exist.env"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auto-migration")
}

func TestServe_ListenFailureClosesResources(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { busy.Close() })

	db := databasetest.NewSQLite(t)
	cfg := &config.Config{Server: config.ServerConfig{Port: "0", Env: "production"}}
	srv, err := server.NewServer(cfg, zap.NewNop(), db, nil)
	require.NoError(t, err)
	srv.Addr = busy.Addr().String()

	err = serve(context.Background(), srv, zap.NewNop())
	require.Error(t, err)

	assert.Equal(t, "down", db.Health(context.Background())["status"])
}
