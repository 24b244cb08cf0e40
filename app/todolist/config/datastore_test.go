package config_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/jrazmi/todolist/app/todolist/config"
	"github.com/jrazmi/todolist/sdk/logger"
)

func TestOpenDatastoreRequiresURL(t *testing.T) {
	t.Setenv("DSTEST_DATABASE_URL", "")
	log := logger.NewDefault(logger.WithOutput(io.Discard))

	_, err := config.OpenDatastore(context.Background(), "DSTEST", log)
	if err == nil || !strings.Contains(err.Error(), "DSTEST_DATABASE_URL") {
		t.Fatalf("err = %v, want missing DSTEST_DATABASE_URL", err)
	}
}

func TestOpenDatastoreSQLite(t *testing.T) {
	t.Setenv("DSTEST_DATABASE_URL", "sqlite://:memory:")
	ctx := context.Background()
	log := logger.NewDefault(logger.WithOutput(io.Discard))

	ds, err := config.OpenDatastore(ctx, "DSTEST", log)
	if err != nil {
		t.Fatalf("OpenDatastore() error = %v", err)
	}
	defer ds.Close()

	if ds.Kind != config.KindSQLite {
		t.Errorf("Kind = %q", ds.Kind)
	}
	if err := ds.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := ds.Storer.Check(ctx); err != nil {
		t.Errorf("Check() error = %v", err)
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("DSTEST_DATABASE_AUTO_MIGRATE", "")

	s, err := config.LoadSettings("DSTEST")
	if err != nil {
		t.Fatal(err)
	}
	if !s.AutoMigrate {
		t.Error("AutoMigrate should default to true")
	}
}
