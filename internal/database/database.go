package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"gaia-mare/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Service owns the store handle. It is created once at process start and
// passed to the repositories that need it.
type Service struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	driver string
	logger *zap.Logger
}

// New opens the configured database, tunes the connection pool and
// verifies the connection is live.
func New(cfg config.DatabaseConfig, logger *zap.Logger) (*Service, error) {
	dialector, err := buildDialector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build dialector: %w", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(logger, 200*time.Millisecond),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// Every connection to an in-memory sqlite database is a new database.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database", zap.String("driver", cfg.Driver))

	return &Service{db: db, sqlDB: sqlDB, driver: cfg.Driver, logger: logger}, nil
}

func buildDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		sqlDB, err := sql.Open("pgx", cfg.DSN())
		if err != nil {
			return nil, err
		}
		return postgres.New(postgres.Config{Conn: sqlDB}), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: postgres, sqlite)", cfg.Driver)
	}
}

// DB returns the gorm handle. Callers scope it to a request with WithContext.
func (s *Service) DB() *gorm.DB {
	return s.db
}

// SQL returns the underlying connection pool.
func (s *Service) SQL() *sql.DB {
	return s.sqlDB
}

// Driver returns the configured driver name.
func (s *Service) Driver() string {
	return s.driver
}

// Health pings the database and reports connection pool statistics.
func (s *Service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.sqlDB.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		s.logger.Warn("Database health check failed", zap.Error(err))
		return stats
	}

	dbStats := s.sqlDB.Stats()
	stats["status"] = "up"
	stats["driver"] = s.driver
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)

	return stats
}

// Close releases the connection pool.
func (s *Service) Close() error {
	s.logger.Info("Closing database connection")
	return s.sqlDB.Close()
}
