package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jobportal/recruitment/pkg/logger"
)

// Config contains database connection options.
type Config struct {
	Driver   string
	Path     string // SQLite database path when Driver == sqlite
	DSN      string // Optional DSN override, e.g. a DATABASE_URL
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	Options  map[string]string

	Pool  PoolConfig
	Retry RetryConfig
}

// PoolConfig bounds the connection pool. MaxOpen defaults to 15 (5 steady + 10 overflow).
type PoolConfig struct {
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

// RetryConfig controls start-up connection attempts. The delay doubles after each failure.
type RetryConfig struct {
	Attempts int
	Delay    time.Duration
}

type opener func(Config) (*gorm.DB, error)

var openers = map[string]opener{
	"sqlite":   openSQLite,
	"postgres": openPostgres,
	"mysql":    openMySQL,
}

// Open initialises a gorm.DB using the provided configuration, retrying
// transient connection failures before giving up.
func Open(cfg Config) (*gorm.DB, error) {
	return OpenContext(context.Background(), cfg)
}

// OpenContext is Open with cancellation of the retry back-off.
func OpenContext(ctx context.Context, cfg Config) (*gorm.DB, error) {
	driver := normaliseDriver(cfg.Driver)
	open, ok := openers[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	cfg.Driver = driver

	attempts := cfg.Retry.Attempts
	if attempts <= 0 {
		attempts = 3
	}
	delay := cfg.Retry.Delay
	if delay <= 0 {
		delay = time.Second
	}

	log := logger.WithModule("database")

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := open(cfg)
		if err == nil {
			err = ping(ctx, db)
			if err == nil {
				if perr := applyPool(db, cfg); perr != nil {
					return nil, perr
				}
				return db, nil
			}
			closeQuietly(db)
		}

		lastErr = err
		if attempt == attempts {
			break
		}
		log.Warn("database connection failed, retrying",
			zap.String("driver", driver),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("open %s database: %w", driver, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return nil, fmt.Errorf("open %s database after %d attempts: %w", driver, attempts, lastErr)
}

// AutoMigrateAndSeed convenience helper used during application start-up.
func AutoMigrateAndSeed(db *gorm.DB, seed Seed) error {
	if db == nil {
		return errors.New("nil database handle")
	}

	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := SeedData(db, seed); err != nil {
		return fmt.Errorf("seed data: %w", err)
	}

	return nil
}

// Close releases the underlying sql.DB.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func normaliseDriver(driver string) string {
	switch d := strings.ToLower(strings.TrimSpace(driver)); d {
	case "", "sqlite3":
		return "sqlite"
	case "postgresql", "pg":
		return "postgres"
	default:
		return d
	}
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return sqlDB.PingContext(pingCtx)
}

func applyPool(db *gorm.DB, cfg Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	pool := cfg.Pool
	if pool.MaxOpen <= 0 {
		pool.MaxOpen = 15
	}
	if pool.MaxIdle <= 0 {
		pool.MaxIdle = 5
	}
	if pool.MaxIdle > pool.MaxOpen {
		pool.MaxIdle = pool.MaxOpen
	}
	if pool.ConnMaxLifetime <= 0 {
		pool.ConnMaxLifetime = 30 * time.Minute
	}

	sqlDB.SetMaxOpenConns(pool.MaxOpen)
	sqlDB.SetMaxIdleConns(pool.MaxIdle)
	// An in-memory sqlite database vanishes with its last connection.
	if cfg.Driver == "sqlite" && isMemoryPath(cfg) {
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	return nil
}

func closeQuietly(db *gorm.DB) {
	_ = Close(db)
}
