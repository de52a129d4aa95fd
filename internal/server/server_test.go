package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gaia-mare/internal/config"
	"gaia-mare/internal/database"
	"gaia-mare/internal/database/databasetest"
	"gaia-mare/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Port: "0", Env: env},
		RateLimit: config.RateLimitConfig{Requests: 2, Window: time.Minute},
	}
}

func seededServer(t *testing.T, cfg *config.Config, redisClient *redis.Client) *Server {
	t.Helper()

	db := databasetest.NewSQLite(t)
	_, err := database.Seed(context.Background(), db.DB(), zap.NewNop())
	require.NoError(t, err)

	srv, err := NewServer(cfg, zap.NewNop(), db, redisClient)
	require.NoError(t, err)
	return srv
}

func get(srv *Server, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestServer_CatalogRoutes(t *testing.T) {
	srv := seededServer(t, testConfig("development"), nil)

	w := get(srv, "/api/products")
	require.Equal(t, http.StatusOK, w.Code)
	var products []domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.Len(t, products, 3)

	w = get(srv, "/api/products/stock")
	require.Equal(t, http.StatusOK, w.Code)
	var stock []domain.ProductStock
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stock))
	require.Len(t, stock, len(products))
	totals := map[string]int{}
	for _, s := range stock {
		totals[s.Name] = s.TotalStock
	}
	assert.Equal(t, map[string]int{"Tote Gaia": 2, "Bandolera Mare": 1, "Clutch Invierno": 0}, totals)

	w = get(srv, "/api/products/filter?collection=Verano&material=Piel")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Tote Gaia", products[0].Name)

	w = get(srv, "/api/products/filter?collection=verano")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = get(srv, "/api/inventory/sku/GAIA-TOTE-BRW-001")
	require.Equal(t, http.StatusOK, w.Code)
	var item domain.InventoryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, "GAIA-TOTE-BRW-001", item.SKU)

	w = get(srv, "/api/inventory/sku/NOPE")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestServer_HealthAndMetrics(t *testing.T) {
	srv := seededServer(t, testConfig("development"), nil)

	w := get(srv, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	var health struct {
		Status   string            `json:"status"`
		Database map[string]string `json:"database"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "sqlite", health.Database["driver"])

	get(srv, "/api/inventory")
	w = get(srv, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/api/inventory`)
	assert.Contains(t, w.Body.String(), "gaiamare_db_query_duration_seconds")
	assert.Contains(t, w.Body.String(), `go_sql_open_connections{db_name="sqlite"}`)
}

func TestServer_HealthReportsUnavailable(t *testing.T) {
	srv := seededServer(t, testConfig("development"), nil)
	require.NoError(t, srv.db.Close())

	w := get(srv, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServer_DocsOnlyOutsideProduction(t *testing.T) {
	dev := seededServer(t, testConfig("development"), nil)
	assert.Equal(t, http.StatusOK, get(dev, "/openapi.yaml").Code)

	prod := seededServer(t, testConfig("production"), nil)
	assert.Equal(t, http.StatusNotFound, get(prod, "/openapi.yaml").Code)
	assert.Equal(t, http.StatusNotFound, get(prod, "/api/docs/").Code)
}

func TestServer_RateLimitAppliesToAPIRoutes(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := testConfig("development")
	cfg.RateLimit.Enabled = true
	srv := seededServer(t, cfg, redisClient)
	t.Cleanup(func() { redisClient.Close() })

	assert.Equal(t, http.StatusOK, get(srv, "/api/products").Code)
	assert.Equal(t, http.StatusOK, get(srv, "/api/products").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(srv, "/api/products").Code)

	// operational endpoints are not limited
	assert.Equal(t, http.StatusOK, get(srv, "/health").Code)
}
