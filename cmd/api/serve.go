package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gaia-mare/internal/config"
	"gaia-mare/internal/database"
	"gaia-mare/internal/server"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP server",
	RunE:  runServe,
}

func gracefulShutdown(ctx context.Context, stop context.CancelFunc, apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 30 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close server resources
	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// serve runs apiServer until SIGINT/SIGTERM, ctx cancellation or a listen
// failure. Server resources are closed on every path.
func serve(ctx context.Context, apiServer *server.Server, logger *zap.Logger) error {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(ctx, stop, apiServer, logger, done)

	logger.Info("Server listening", zap.String("addr", apiServer.Addr))

	err := apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP server error", zap.Error(err))
		stop()
		<-done
		return err
	}

	// Wait for the graceful shutdown to complete
	<-done
	logger.Info("Graceful shutdown complete")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := boot()
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("Starting catalog API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	// Initialize database
	dbService, err := database.New(cfg.Database, log)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return err
	}

	// Check database health
	log.Info("Database health check", zap.Any("health", dbService.Health(cmd.Context())))

	// Run migrations
	if err := database.RunMigrations(cmd.Context(), dbService, log); err != nil {
		dbService.Close()
		log.Error("Failed to run migrations", zap.Error(err))
		return err
	}
	log.Info("Database migrations completed successfully")

	redisClient := newRedisClient(cmd.Context(), cfg, log)

	// Create server
	srv, err := server.NewServer(cfg, log, dbService, redisClient)
	if err != nil {
		dbService.Close()
		if redisClient != nil {
			redisClient.Close()
		}
		return err
	}

	return serve(cmd.Context(), srv, log)
}

// newRedisClient connects the rate limiter's store. It returns nil when
// rate limiting is disabled or redis cannot be reached, so the API keeps
// serving unthrottled.
func newRedisClient(ctx context.Context, cfg *config.Config, log *zap.Logger) *redis.Client {
	if !cfg.RateLimit.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable, rate limiting disabled",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(err),
		)
		client.Close()
		return nil
	}

	log.Info("Rate limiting enabled",
		zap.Int("requests", cfg.RateLimit.Requests),
		zap.Duration("window", cfg.RateLimit.Window),
	)
	return client
}
