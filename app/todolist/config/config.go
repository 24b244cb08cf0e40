// Package config holds the wiring shared by the todolist binaries.
package config

import (
	"fmt"

	"github.com/jrazmi/todolist/core/repositories/todosrepo"
	"github.com/jrazmi/todolist/sdk/environment"
	"github.com/jrazmi/todolist/sdk/logger"
	"github.com/jrazmi/todolist/sdk/telemetry"
)

// Settings are the application level switches.
type Settings struct {
	AutoMigrate bool `toml:"auto_migrate" env:"DATABASE_AUTO_MIGRATE" default:"true"`
}

// LoadSettings reads <prefix>_DATABASE_AUTO_MIGRATE.
func LoadSettings(prefix string) (Settings, error) {
	var s Settings
	if err := environment.ParseEnvTags(prefix, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	return s, nil
}

// Repositories are the repositories this instance serves.
type Repositories struct {
	Todos *todosrepo.Repository
}

// Todolist is the overall configuration handed to the web layer.
type Todolist struct {
	Build        string
	APIRoute     string
	Logger       *logger.Logger
	Telemetry    telemetry.Telemetry
	Repositories Repositories
}
