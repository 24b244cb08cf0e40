// Command todotui is a terminal client for the todolist API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/jrazmi/todolist/sdk/environment"
	"github.com/jrazmi/todolist/sdk/logger"
	"github.com/jrazmi/todolist/sdk/todoclient"
)

var appName = "TODO"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("✖ "+err.Error()))
		os.Exit(1)
	}
}

func run() error {
	envErr := environment.LoadEnv()

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if path := environment.GetNamespaceEnvValue(appName, "TUI_LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		out = f
	}

	log, err := logger.NewFromEnv(appName, logger.WithOutput(out))
	if err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}

	if envErr != nil {
		log.Warn("startup", "status", "ignoring .env file", "err", envErr)
	}

	apiURL := environment.GetNamespaceEnvOrDefault(appName, "API_URL", "http://localhost:8080/api")
	log.Info("startup", "api", apiURL)

	p := tea.NewProgram(newModel(todoclient.New(apiURL), log),
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	// Raw mode turns ctrl+c into a key press; signals from outside quit the program.
	gfshutdown.GracefulShutdown(context.Background(), 2*time.Second, map[string]gfshutdown.Operation{
		"todotui": func(ctx context.Context) error {
			log.InfoContext(ctx, "shutdown", "status", "signal received")
			p.Quit()
			return nil
		},
	})

	if _, err := p.Run(); err != nil {
		return err
	}

	log.Info("shutdown")
	return nil
}
