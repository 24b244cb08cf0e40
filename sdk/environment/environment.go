// Package environment provides utilities for managing environment variables
// and configuration loading with support for namespacing and defaults.
package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file in the working
// directory. Variables already present in the process environment win. A
// missing file is not an error.
//
// Example:
//
//	if err := LoadEnv(); err != nil {
//	    log.Printf("reading .env: %v", err)
//	}
func LoadEnv() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// GetEnvOrDefault retrieves an environment variable value, returning fallback
// when the variable is not set.
func GetEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvKeyPrefix joins namespace and key with an underscore, returning key
// untouched when namespace is empty.
//
//	GetEnvKeyPrefix("TODO", "DATABASE_URL") // "TODO_DATABASE_URL"
//	GetEnvKeyPrefix("", "DATABASE_URL")     // "DATABASE_URL"
func GetEnvKeyPrefix(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", namespace, key)
}

// GetNamespaceEnvOrDefault looks up a namespaced key, returning fallback when unset.
func GetNamespaceEnvOrDefault(namespace, key, fallback string) string {
	return GetEnvOrDefault(GetEnvKeyPrefix(namespace, key), fallback)
}

// GetNamespaceEnvValue retrieves the value of a namespaced environment variable.
// It cannot distinguish an unset variable from one set to an empty string.
func GetNamespaceEnvValue(namespace, key string) string {
	return os.Getenv(GetEnvKeyPrefix(namespace, key))
}
