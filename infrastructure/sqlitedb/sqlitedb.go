// Package sqlitedb opens gorm connections to SQLite databases.
package sqlitedb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const scheme = "sqlite://"

// Options is the exportable configuration struct.
type Options struct {
	DatabaseURL   string        `toml:"url" env:"DATABASE_URL" required:"true"`
	LogQueries    bool          `toml:"log_queries" env:"DATABASE_LOG_QUERIES"`
	SlowThreshold time.Duration `toml:"slow_threshold" env:"DATABASE_SLOW_THRESHOLD" default:"200ms"`
}

// IsDSN reports whether url names a SQLite database rather than a
// PostgreSQL one.
func IsDSN(url string) bool {
	return strings.HasPrefix(url, scheme) ||
		strings.HasPrefix(url, "file:") ||
		url == ":memory:"
}

// Path strips the sqlite:// scheme, leaving what the driver expects.
func Path(url string) string {
	return strings.TrimPrefix(url, scheme)
}

// Open connects to the database named by cfg.DatabaseURL. Gorm's own log
// output is routed through log.
func Open(ctx context.Context, cfg Options, log *slog.Logger) (*gorm.DB, error) {
	path := Path(cfg.DatabaseURL)
	if path == "" {
		return nil, fmt.Errorf("empty sqlite path in %q", cfg.DatabaseURL)
	}

	level := gormlogger.Warn
	if cfg.LogQueries {
		level = gormlogger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.New(slog.NewLogLogger(log.Handler(), slog.LevelInfo), gormlogger.Config{
			SlowThreshold:             cfg.SlowThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if strings.Contains(path, ":memory:") {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	return db, nil
}

// StatusCheck returns nil if the database answers a ping.
func StatusCheck(ctx context.Context, db *gorm.DB) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second)
		defer cancel()
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
