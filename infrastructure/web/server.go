package web

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jrazmi/todolist/sdk/environment"
)

// WebServer wraps http.Server with its configuration.
type WebServer struct {
	*http.Server
	Config ServerConfig
}

// ServerConfig holds web server configuration.
type ServerConfig struct {
	Port            string        `toml:"port" env:"PORT" default:":8080"`
	APIRoute        string        `toml:"api_route" env:"API_ROUTE" default:"/api"`
	ReadTimeout     time.Duration `toml:"read_timeout" env:"READ_TIMEOUT" default:"5s"`
	WriteTimeout    time.Duration `toml:"write_timeout" env:"WRITE_TIMEOUT" default:"10s"`
	IdleTimeout     time.Duration `toml:"idle_timeout" env:"IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" default:"20s"`
}

type serveroptions struct {
	handler  http.Handler
	errorLog *log.Logger
	config   ServerConfig
}

// ServerOption adjusts the server before it is built.
type ServerOption func(*serveroptions)

// WithHandler sets the HTTP handler.
func WithHandler(handler http.Handler) ServerOption {
	return func(o *serveroptions) {
		o.handler = handler
	}
}

// WithErrorLog sets the error logger.
func WithErrorLog(errorLog *log.Logger) ServerOption {
	return func(o *serveroptions) {
		o.errorLog = errorLog
	}
}

// LoadServerConfig reads <prefix>_PORT, <prefix>_API_ROUTE and the timeouts.
func LoadServerConfig(prefix string) (ServerConfig, error) {
	var cfg ServerConfig
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("parsing webserver config: %w", err)
	}
	return cfg, nil
}

// NewWebServer builds the server from cfg.
func NewWebServer(cfg ServerConfig, opts ...ServerOption) *WebServer {
	o := &serveroptions{config: cfg}
	for _, opt := range opts {
		opt(o)
	}

	server := &http.Server{
		Addr:         o.config.Port,
		Handler:      o.handler,
		ReadTimeout:  o.config.ReadTimeout,
		WriteTimeout: o.config.WriteTimeout,
		IdleTimeout:  o.config.IdleTimeout,
		ErrorLog:     o.errorLog,
	}

	return &WebServer{
		Server: server,
		Config: o.config,
	}
}
