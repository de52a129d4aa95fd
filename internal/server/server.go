package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gaia-mare/internal/config"
	"gaia-mare/internal/database"
	"gaia-mare/internal/docs"
	"gaia-mare/internal/metrics"
	custommiddleware "gaia-mare/internal/middleware"
	"gaia-mare/internal/repository"
	"gaia-mare/internal/service"
	"gaia-mare/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config  *config.Config
	logger  *zap.Logger
	db      *database.Service
	redis   *redis.Client
	metrics *metrics.Metrics
}

// NewServer wires repositories, services and handlers onto a chi router.
// redisClient may be nil; rate limiting is then off regardless of config.
func NewServer(cfg *config.Config, logger *zap.Logger, db *database.Service, redisClient *redis.Client) (*Server, error) {
	m := metrics.New()
	if err := m.InstrumentDB(db.DB()); err != nil {
		return nil, fmt.Errorf("failed to instrument database: %w", err)
	}
	m.Registry().MustRegister(collectors.NewDBStatsCollector(db.SQL(), db.Driver()))

	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, !cfg.Server.IsProduction()))
	router.Use(m.Middleware())

	// Health check endpoint
	router.Get("/health", healthHandler(db))
	router.Get("/metrics", m.Handler())

	if !cfg.Server.IsProduction() {
		if err := docs.Register(context.Background(), router); err != nil {
			return nil, err
		}
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.DB())
	inventoryRepo := repository.NewInventoryRepository(db.DB())

	// Initialize services
	productService := service.NewProductService(productRepo)
	inventoryService := service.NewInventoryService(inventoryRepo)

	// Initialize handlers
	productHandler := transport.NewProductHandler(productService, logger)
	inventoryHandler := transport.NewInventoryHandler(inventoryService, logger)

	// Register routes
	router.Group(func(r chi.Router) {
		if cfg.RateLimit.Enabled && redisClient != nil {
			r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.Requests,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "gaiamare:ratelimit",
			}, logger))
		}
		productHandler.RegisterRoutes(r)
		inventoryHandler.RegisterRoutes(r)
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:  cfg,
		logger:  logger,
		db:      db,
		redis:   redisClient,
		metrics: m,
	}

	return server, nil
}

func healthHandler(db *database.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := db.Health(r.Context())
		if health["status"] != "up" {
			custommiddleware.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":   "unavailable",
				"database": health,
			})
			return
		}

		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"database": health,
		})
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
