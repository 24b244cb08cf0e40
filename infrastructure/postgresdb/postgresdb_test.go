package postgresdb_test

import (
	"testing"
	"time"

	"github.com/jrazmi/todolist/infrastructure/postgresdb"
)

func TestLoadOptions(t *testing.T) {
	t.Setenv("PGT_DATABASE_URL", "postgres://localhost/todos")
	t.Setenv("PGT_DATABASE_CONNECT_TIMEOUT", "3s")
	t.Setenv("PGT_DATABASE_LOG_QUERIES", "true")

	cfg, err := postgresdb.LoadOptions("PGT")
	if err != nil {
		t.Fatalf("LoadOptions() error = %v", err)
	}
	if cfg.ConnTimeout != 3*time.Second {
		t.Errorf("ConnTimeout = %v", cfg.ConnTimeout)
	}
	if !cfg.LogQueries {
		t.Error("LogQueries = false")
	}
	if cfg.MaxConns != 10 {
		t.Errorf("MaxConns = %d, want default", cfg.MaxConns)
	}
}

func TestLoadOptionsRequiresURL(t *testing.T) {
	t.Setenv("PGT_DATABASE_URL", "")

	if _, err := postgresdb.LoadOptions("PGT"); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}
