package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/jrazmi/todolist/app/todolist/config"
	"github.com/jrazmi/todolist/sdk/environment"
	"github.com/jrazmi/todolist/sdk/logger"
)

var build = "develop"
var appName = "TODO"

const shutdownTimeout = 5 * time.Second

func processCommands(ctx context.Context, log *logger.Logger, command string) error {
	switch command {
	case "migrate":
		ds, err := config.OpenDatastore(ctx, appName, log)
		if err != nil {
			return fmt.Errorf("opening datastore: %w", err)
		}
		defer func() {
			log.InfoContext(ctx, "shutdown", "status", "closing datastore")
			ds.Close()
		}()

		log.InfoContext(ctx, "running migration", "datastore", ds.Kind)
		if err := ds.Migrate(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.InfoContext(ctx, "migration completed successfully")
		return nil

	default:
		printHelp()
		return nil
	}
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  migrate        - create or update the todos schema in TODO_DATABASE_URL")
	fmt.Println()
	fmt.Println("Use 'go run app/tooling/main.go <command>'.")
}

func run(ctx context.Context, log *logger.Logger) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	var command string
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if command == "" || command == "help" || command == "--help" || command == "-h" {
		printHelp()
		return nil
	}

	return execute(ctx, log, command)
}

// execute runs command until it returns or a shutdown signal arrives. On a
// signal the command's context is canceled and it gets shutdownTimeout to stop.
func execute(ctx context.Context, log *logger.Logger, command string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	done := make(chan error, 1)
	finished := make(chan struct{})
	go func() {
		done <- processCommands(ctx, log, command)
		close(finished)
	}()

	wait := gfshutdown.GracefulShutdown(context.Background(), shutdownTimeout, map[string]gfshutdown.Operation{
		command: func(opCtx context.Context) error {
			log.InfoContext(opCtx, "shutdown", "status", "shutdown started", "command", command)
			cancel()

			select {
			case <-finished:
				return nil
			case <-opCtx.Done():
				return fmt.Errorf("%s did not stop: %w", command, opCtx.Err())
			}
		},
	})

	select {
	case err := <-done:
		return err

	case code := <-wait:
		select {
		case err := <-done:
			if err != nil {
				return err
			}
		default:
		}
		return fmt.Errorf("%s interrupted, shutdown code %d", command, code)
	}
}

func main() {
	envErr := environment.LoadEnv()

	if path := environment.GetNamespaceEnvValue(appName, "CONFIG_FILE"); path != "" {
		if _, err := environment.LoadTOML(path, appName); err != nil {
			fmt.Fprintf(os.Stderr, "loading config file: %v\n", err)
			os.Exit(1)
		}
	}

	log, err := logger.NewFromEnv(appName)
	if err != nil {
		fmt.Println("oh no we couldn't even get logging going.")
		os.Exit(1)
	}
	ctx := context.Background()
	if envErr != nil {
		log.WarnContext(ctx, "startup", "status", "ignoring .env file", "err", envErr)
	}

	if err = run(ctx, log); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}
