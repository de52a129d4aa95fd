package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gaia-mare/internal/database/databasetest"
	"gaia-mare/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware())
	r.Get("/api/inventory/sku/{sku}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, sku := range []string{"A-1", "B-2", "C-3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/inventory/sku/"+sku, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requestTotal.WithLabelValues(http.MethodGet, "/api/inventory/sku/{sku}", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.requestInFlight))
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware())
	r.Get("/api/products", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New()
	m.requestTotal.WithLabelValues(http.MethodGet, "/api/products", "200").Inc()

	w := httptest.NewRecorder()
	m.Handler()(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(string(body), "gaiamare_http_requests_total"))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}

func TestInstrumentDB_TimesQueries(t *testing.T) {
	m := New()
	db := databasetest.NewSQLite(t).DB()
	require.NoError(t, m.InstrumentDB(db))

	ctx := context.Background()
	product := domain.Product{Name: "Tote Gaia", Price: domain.NewAmount("120")}
	require.NoError(t, db.WithContext(ctx).Create(&product).Error)

	var products []domain.Product
	require.NoError(t, db.WithContext(ctx).Find(&products).Error)

	var missing domain.Product
	err := db.WithContext(ctx).Where("product_id = ?", 999).Take(&missing).Error
	require.Error(t, err)

	assert.Equal(t, 2, testutil.CollectAndCount(m.dbQueryDuration))
	assert.Equal(t, 0, testutil.CollectAndCount(m.dbQueryErrors), "record not found is not a failure")
}
