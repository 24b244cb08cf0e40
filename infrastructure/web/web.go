// Package web contains a small web framework extension over net/http.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jrazmi/todolist/sdk/environment"
)

// Encoder defines behavior that can encode a data model and provide
// the content type for that encoding.
type Encoder interface {
	Encode() (data []byte, contentType string, err error)
}

// HandlerFunc represents a function that handles a http request and returns something to encode.
type HandlerFunc func(ctx context.Context, r *http.Request) Encoder

// Middleware wraps a HandlerFunc.
type Middleware func(HandlerFunc) HandlerFunc

// Telemetry stamps and reads per-request trace ids.
type Telemetry interface {
	SetTraceID(ctx context.Context) context.Context
	GetTraceID(ctx context.Context) string
}

// WebHandler is the entrypoint into the application and what configures the
// context for each http handler.
type WebHandler struct {
	mux       *http.ServeMux
	log       *slog.Logger
	telemetry Telemetry

	corsOrigins    []string
	defaultHeaders map[string]string
	maxBodyBytes   int64

	globalMiddleware []Middleware
	preflight        map[string]bool
}

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes = 64 << 10

// HandlerOptions is the exportable configuration struct.
type HandlerOptions struct {
	CORSOrigins  []string `toml:"cors_origins" env:"CORS_ORIGINS" default:"*" separator:","`
	MaxBodyBytes int64    `toml:"max_body_bytes" env:"MAX_BODY_BYTES" default:"65536"`
}

// HandlerOption configures a WebHandler at construction.
type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	log              *slog.Logger
	telemetry        Telemetry
	corsOrigins      []string
	defaultHeaders   map[string]string
	globalMiddleware []Middleware
}

// WithLogging sets the logger.
func WithLogging(log *slog.Logger) HandlerOption {
	return func(o *handlerOptions) {
		o.log = log
	}
}

// WithTelemetry sets the telemetry provider.
func WithTelemetry(tel Telemetry) HandlerOption {
	return func(o *handlerOptions) {
		o.telemetry = tel
	}
}

// WithCORS sets CORS origins. An empty list disables CORS handling.
func WithCORS(origins []string) HandlerOption {
	return func(o *handlerOptions) {
		o.corsOrigins = origins
	}
}

// WithDefaultHeaders sets headers written on every response.
func WithDefaultHeaders(headers map[string]string) HandlerOption {
	return func(o *handlerOptions) {
		if o.defaultHeaders == nil {
			o.defaultHeaders = make(map[string]string)
		}
		for k, v := range headers {
			o.defaultHeaders[k] = v
		}
	}
}

// WithGlobalMiddleware adds middleware applied to every route, in order.
func WithGlobalMiddleware(middleware ...Middleware) HandlerOption {
	return func(o *handlerOptions) {
		o.globalMiddleware = append(o.globalMiddleware, middleware...)
	}
}

// NewWebHandlerFromEnv creates a new WebHandler from <prefix>_CORS_ORIGINS and
// <prefix>_MAX_BODY_BYTES.
func NewWebHandlerFromEnv(prefix string, opts ...HandlerOption) (*WebHandler, error) {
	var cfg HandlerOptions
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing webhandler config: %w", err)
	}
	return NewWebHandler(cfg, opts...), nil
}

// NewWebHandler creates a WebHandler from cfg with opts applied on top.
func NewWebHandler(cfg HandlerOptions, opts ...HandlerOption) *WebHandler {
	o := &handlerOptions{
		corsOrigins:      cfg.CORSOrigins,
		defaultHeaders:   make(map[string]string),
		globalMiddleware: make([]Middleware, 0),
	}

	for _, opt := range opts {
		opt(o)
	}

	wh := &WebHandler{
		mux:              http.NewServeMux(),
		log:              o.log,
		telemetry:        o.telemetry,
		corsOrigins:      o.corsOrigins,
		defaultHeaders:   o.defaultHeaders,
		maxBodyBytes:     cfg.MaxBodyBytes,
		globalMiddleware: o.globalMiddleware,
		preflight:        make(map[string]bool),
	}
	if wh.maxBodyBytes <= 0 {
		wh.maxBodyBytes = DefaultMaxBodyBytes
	}

	// CORS runs first so preflight requests never reach logging or handlers.
	if len(wh.corsOrigins) > 0 {
		wh.globalMiddleware = append([]Middleware{wh.corsMiddleware()}, wh.globalMiddleware...)
	}

	return wh
}

// Handle registers handler for method and path with the global middleware
// followed by the route middleware.
func (wh *WebHandler) Handle(method, path string, handler HandlerFunc, middleware ...Middleware) {
	final := wh.buildHandlerChain(handler, middleware...)
	wh.mux.HandleFunc(fmt.Sprintf("%s %s", strings.ToUpper(method), path), wh.adapt(final))

	if len(wh.corsOrigins) > 0 && !wh.preflight[path] {
		wh.preflight[path] = true
		noop := func(ctx context.Context, r *http.Request) Encoder { return NewNoResponse() }
		wh.mux.HandleFunc(fmt.Sprintf("OPTIONS %s", path), wh.adapt(wh.corsMiddleware()(noop)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (wh *WebHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wh.mux.ServeHTTP(w, r)
}

func (wh *WebHandler) adapt(handler HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if wh.telemetry != nil {
			ctx = wh.telemetry.SetTraceID(ctx)
		}
		ctx = setWriter(ctx, w)

		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, wh.maxBodyBytes)
		}

		for k, v := range wh.defaultHeaders {
			w.Header().Set(k, v)
		}

		resp := handler(ctx, r)

		if err := Respond(ctx, w, resp); err != nil && wh.log != nil {
			wh.log.ErrorContext(ctx, "web-respond", "err", err)
		}
	}
}
