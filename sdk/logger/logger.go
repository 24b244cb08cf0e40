// Package logger wraps log/slog with env-driven configuration and request
// trace id stamping.
package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/jrazmi/todolist/sdk/environment"
)

// Logger is a wrapper around the standard slog.Logger.
type Logger struct {
	*slog.Logger
}

// TraceIDFn extracts a trace id from a context. An empty result is not logged.
type TraceIDFn func(ctx context.Context) string

// Options is the exportable configuration struct.
type Options struct {
	Level      string `toml:"level" env:"LOG_LEVEL" default:"INFO"`
	Output     string `toml:"output" env:"LOG_OUTPUT" default:"STDOUT"`
	Format     string `toml:"format" env:"LOG_FORMAT" default:"json"`
	TimeFormat string `toml:"time_format" env:"LOG_TIME_FORMAT" default:"RFC3339"`
	Source     bool   `toml:"source" env:"LOG_SOURCE"`
}

// options holds all configurable settings for the logger.
type options struct {
	level      slog.Level
	output     io.Writer
	addSource  bool
	format     string // "json", "text" or "pretty"
	timeFormat string // "RFC3339", "RFC3339Nano", "Unix", "UnixMilli" or a layout
	traceIDFn  TraceIDFn
}

// Option takes config option and returns formatted config.
type Option func(*options)

// WithLevel overrides the configured level.
func WithLevel(level string) Option {
	return func(o *options) {
		o.level = parseLevel(level)
	}
}

// WithOutput overrides the configured output writer.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithFormat overrides the configured format.
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithTraceIDFn stamps a trace_id attribute on every record logged with a context.
func WithTraceIDFn(fn TraceIDFn) Option {
	return func(o *options) {
		o.traceIDFn = fn
	}
}

// NewDefault builds a JSON logger at INFO on stdout.
func NewDefault(opts ...Option) *Logger {
	cfg := Options{
		Level:      "INFO",
		Output:     "STDOUT",
		Format:     "json",
		TimeFormat: "RFC3339",
	}
	return newLogger(cfg, opts...)
}

// NewFromEnv builds a logger from <prefix>_LOG_* variables.
func NewFromEnv(prefix string, opts ...Option) (*Logger, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing logger config: %w", err)
	}
	return newLogger(cfg, opts...), nil
}

// NewStdLogger adapts the logger for APIs that want a *log.Logger, such as
// http.Server.ErrorLog or gorm's logger writer.
func NewStdLogger(logger *Logger, level slog.Level) *log.Logger {
	return slog.NewLogLogger(logger.Handler(), level)
}

func newLogger(cfg Options, opts ...Option) *Logger {
	o := &options{
		level:      parseLevel(cfg.Level),
		output:     parseOutput(cfg.Output),
		format:     cfg.Format,
		timeFormat: cfg.TimeFormat,
		addSource:  cfg.Source,
	}
	for _, opt := range opts {
		opt(o)
	}

	var handler slog.Handler
	switch o.format {
	case "pretty":
		handler = charmlog.NewWithOptions(o.output, charmlog.Options{
			Level:           charmlog.Level(o.level),
			ReportTimestamp: true,
			ReportCaller:    o.addSource,
			TimeFormat:      timeLayout(o.timeFormat),
		})
	case "text":
		handler = slog.NewTextHandler(o.output, handlerOptions(o))
	default:
		handler = slog.NewJSONHandler(o.output, handlerOptions(o))
	}

	if o.traceIDFn != nil {
		handler = &traceHandler{Handler: handler, traceIDFn: o.traceIDFn}
	}

	return &Logger{Logger: slog.New(handler)}
}

func handlerOptions(o *options) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:     o.level,
		AddSource: o.addSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.TimeKey || len(groups) > 0 || o.timeFormat == "" {
				return a
			}
			t := a.Value.Time()
			switch o.timeFormat {
			case "Unix":
				return slog.Int64(slog.TimeKey, t.Unix())
			case "UnixMilli":
				return slog.Int64(slog.TimeKey, t.UnixMilli())
			default:
				return slog.String(slog.TimeKey, t.Format(timeLayout(o.timeFormat)))
			}
		},
	}
}

func timeLayout(format string) string {
	switch format {
	case "", "RFC3339":
		return time.RFC3339
	case "RFC3339Nano":
		return time.RFC3339Nano
	case "Unix", "UnixMilli":
		return time.RFC3339
	default:
		return format
	}
}

// traceHandler adds the request trace id to records.
type traceHandler struct {
	slog.Handler
	traceIDFn TraceIDFn
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if tid := h.traceIDFn(ctx); tid != "" {
			r.AddAttrs(slog.String("trace_id", tid))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs), traceIDFn: h.traceIDFn}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name), traceIDFn: h.traceIDFn}
}
