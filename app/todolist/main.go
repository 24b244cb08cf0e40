package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/jrazmi/todolist/app/todolist/config"
	"github.com/jrazmi/todolist/app/todolist/ui"
	"github.com/jrazmi/todolist/bridge/repositories/todosrepobridge"
	"github.com/jrazmi/todolist/bridge/scaffolding/mid"
	"github.com/jrazmi/todolist/core/repositories/todosrepo"
	"github.com/jrazmi/todolist/infrastructure/web"
	"github.com/jrazmi/todolist/sdk/environment"
	"github.com/jrazmi/todolist/sdk/logger"
	"github.com/jrazmi/todolist/sdk/telemetry"
)

var build = "develop"
var appName = "TODO"

func main() {
	envErr := environment.LoadEnv()

	if path := environment.GetNamespaceEnvValue(appName, "CONFIG_FILE"); path != "" {
		if _, err := environment.LoadTOML(path, appName); err != nil {
			fmt.Fprintf(os.Stderr, "loading config file: %v\n", err)
			os.Exit(1)
		}
	}

	tel := telemetry.NewTelemetry()
	log, err := logger.NewFromEnv(appName, logger.WithTraceIDFn(tel.TraceIDOrEmpty))
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuring logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if envErr != nil {
		log.WarnContext(ctx, "startup", "status", "ignoring .env file", "err", envErr)
	}

	if err := run(ctx, log, tel); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger, tel telemetry.Telemetry) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	// DATABASES
	// ==============================================================================
	settings, err := config.LoadSettings(appName)
	if err != nil {
		return err
	}

	ds, err := config.OpenDatastore(ctx, appName, log)
	if err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	log.InfoContext(ctx, "init", "datastore", ds.Kind)

	if settings.AutoMigrate {
		if err := ds.Migrate(ctx); err != nil {
			ds.Close()
			return fmt.Errorf("migrating datastore: %w", err)
		}
	}

	// REPOSITORIES
	// ==============================================================================
	webCfg, err := web.LoadServerConfig(appName)
	if err != nil {
		ds.Close()
		return fmt.Errorf("webserver: %w", err)
	}

	siteCfg := config.Todolist{
		Build:     build,
		APIRoute:  webCfg.APIRoute,
		Logger:    log,
		Telemetry: tel,
		Repositories: config.Repositories{
			Todos: todosrepo.NewRepository(log, ds.Storer),
		},
	}

	handler, err := webHandler(siteCfg)
	if err != nil {
		ds.Close()
		return fmt.Errorf("webhandler: %w", err)
	}

	server := web.NewWebServer(webCfg,
		web.WithHandler(handler),
		web.WithErrorLog(logger.NewStdLogger(log, slog.LevelError)),
	)

	// SERVE
	// ==============================================================================
	serverErrors := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "startup", "status", "api router started", "host", server.Addr, "api", webCfg.APIRoute)
		serverErrors <- server.ListenAndServe()
	}()

	wait := gfshutdown.GracefulShutdown(ctx, webCfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		"todolist": func(ctx context.Context) error {
			log.InfoContext(ctx, "shutdown", "status", "shutdown started")

			if err := server.Shutdown(ctx); err != nil {
				server.Close()
				ds.Close()
				return fmt.Errorf("could not stop server gracefully: %w", err)
			}

			log.InfoContext(ctx, "shutdown", "status", "closing datastore")
			return ds.Close()
		},
	})

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			ds.Close()
			return fmt.Errorf("server error: %w", err)
		}
		return shutdownResult(ctx, log, <-wait)

	case code := <-wait:
		return shutdownResult(ctx, log, code)
	}
}

func shutdownResult(ctx context.Context, log *logger.Logger, code int) error {
	log.InfoContext(ctx, "shutdown", "status", "shutdown complete", "code", code)
	if code != 0 {
		return fmt.Errorf("shutdown exited with code %d", code)
	}
	return nil
}

func webHandler(cfg config.Todolist) (http.Handler, error) {
	log := cfg.Logger

	wh, err := web.NewWebHandlerFromEnv(appName,
		web.WithLogging(log.Logger),
		web.WithTelemetry(cfg.Telemetry),
		web.WithDefaultHeaders(map[string]string{
			"X-Content-Type-Options": "nosniff",
		}),
		web.WithGlobalMiddleware(
			mid.Logger(log),
			mid.Errors(log),
			mid.Panics(),
		),
	)
	if err != nil {
		return nil, err
	}

	bridgeCfg := todosrepobridge.Config{
		Log:        log,
		Repository: cfg.Repositories.Todos,
	}

	// API
	todosrepobridge.AddHttpRoutes(wh.Group(cfg.APIRoute), bridgeCfg)

	// CHECKS
	todosrepobridge.AddCheckRoutes(wh.Group(""), bridgeCfg)

	// UI
	if err := ui.AddHandlers(wh, cfg.APIRoute); err != nil {
		return nil, err
	}

	return wh, nil
}
