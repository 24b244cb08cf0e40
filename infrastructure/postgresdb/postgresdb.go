// Package postgresdb provides the pgx connection pool and migration runner.
package postgresdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jrazmi/todolist/sdk/environment"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	uniqueViolation = "23505"
	checkViolation  = "23514"
	undefinedTable  = "42P01"
)

// Set of error variables for CRUD operations.
var (
	ErrDBNotFound        = pgx.ErrNoRows
	ErrDBDuplicatedEntry = errors.New("duplicated entry")
	ErrDBCheckViolation  = errors.New("check constraint violated")
	ErrUndefinedTable    = errors.New("undefined table")
)

type Pool = pgxpool.Pool

// Options represents the exportable database configuration
type Options struct {
	DatabaseURL string        `toml:"url" env:"DATABASE_URL" required:"true"`
	MaxConns    int           `toml:"max_conns" env:"DATABASE_MAX_CONNS" default:"10"`
	MinConns    int           `toml:"min_conns" env:"DATABASE_MIN_CONNS" default:"1"`
	MaxLifetime time.Duration `toml:"max_lifetime" env:"DATABASE_MAX_LIFETIME" default:"1h"`
	MaxIdleTime time.Duration `toml:"max_idle_time" env:"DATABASE_MAX_IDLE_TIME" default:"30m"`
	HealthCheck time.Duration `toml:"health_check" env:"DATABASE_HEALTH_CHECK" default:"1m"`
	LogQueries  bool          `toml:"log_queries" env:"DATABASE_LOG_QUERIES"`
	ConnTimeout time.Duration `toml:"connect_timeout" env:"DATABASE_CONNECT_TIMEOUT" default:"10s"`
}

// options holds the internal runtime configuration
type options struct {
	databaseURL    string
	maxConns       int
	minConns       int
	maxLifetime    time.Duration
	maxIdleTime    time.Duration
	healthCheck    time.Duration
	logger         *slog.Logger
	tracer         pgx.QueryTracer
	connectTimeout time.Duration
	logQueries     bool
}

// Option is a function that configures the database options
type Option func(*options)

// WithLogger sets the logger used for query logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogQueries enables or disables query logging
func WithLogQueries(enable bool) Option {
	return func(o *options) {
		o.logQueries = enable
	}
}

// LoadOptions reads <prefix>_DATABASE_* variables. DATABASE_URL is required.
func LoadOptions(prefix string) (Options, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return Options{}, fmt.Errorf("parsing database config: %w", err)
	}
	return cfg, nil
}

// NewFromEnv creates a new database connection using environment variables
func NewFromEnv(ctx context.Context, prefix string, opts ...Option) (*pgxpool.Pool, error) {
	cfg, err := LoadOptions(prefix)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg, opts...)
}

// NewTestDB creates a small pool for integration tests.
func NewTestDB(ctx context.Context, conn string, opts ...Option) (*pgxpool.Pool, error) {
	cfg := Options{
		DatabaseURL: conn,
		MaxConns:    4,
		MinConns:    1,
		MaxLifetime: time.Hour,
		MaxIdleTime: time.Hour,
		HealthCheck: time.Hour,
		ConnTimeout: 5 * time.Second,
	}
	return New(ctx, cfg, opts...)
}

// New opens a pool from cfg and pings it.
func New(ctx context.Context, cfg Options, opts ...Option) (*pgxpool.Pool, error) {
	o := &options{
		databaseURL:    cfg.DatabaseURL,
		maxConns:       cfg.MaxConns,
		minConns:       cfg.MinConns,
		maxLifetime:    cfg.MaxLifetime,
		maxIdleTime:    cfg.MaxIdleTime,
		healthCheck:    cfg.HealthCheck,
		connectTimeout: cfg.ConnTimeout,
		logQueries:     cfg.LogQueries,
	}
	if o.connectTimeout <= 0 {
		o.connectTimeout = 10 * time.Second
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	if o.logQueries {
		o.tracer = NewMultiQueryTracer(NewLoggingQueryTracer(o.logger))
	}

	return openDatabase(ctx, o)
}

func openDatabase(ctx context.Context, opts *options) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(opts.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if opts.maxConns > 0 {
		poolConfig.MaxConns = int32(opts.maxConns)
	}
	poolConfig.MinConns = int32(opts.minConns)
	poolConfig.MaxConnLifetime = opts.maxLifetime
	poolConfig.MaxConnIdleTime = opts.maxIdleTime
	if opts.healthCheck > 0 {
		poolConfig.HealthCheckPeriod = opts.healthCheck
	}

	if opts.tracer != nil {
		poolConfig.ConnConfig.Tracer = opts.tracer
	}

	ctx, cancel := context.WithTimeout(ctx, opts.connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// StatusCheck returns nil if it can successfully talk to the database
func StatusCheck(ctx context.Context, pool *pgxpool.Pool) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second)
		defer cancel()
	}

	return pool.Ping(ctx)
}

// HandlePgError converts PostgreSQL errors to application errors
func HandlePgError(err error) error {
	if err == nil {
		return nil
	}

	var pqerr *pgconn.PgError
	if errors.As(err, &pqerr) {
		switch pqerr.Code {
		case undefinedTable:
			return fmt.Errorf("%w: %s", ErrUndefinedTable, pqerr.Message)
		case uniqueViolation:
			return fmt.Errorf("%w: %s", ErrDBDuplicatedEntry, pqerr.Message)
		case checkViolation:
			return fmt.Errorf("%w: %s", ErrDBCheckViolation, pqerr.Message)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDBNotFound
	}

	return err
}
