package main

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/jrazmi/todolist/infrastructure/sqlitedb"
	"github.com/jrazmi/todolist/sdk/logger"
)

func TestExecuteMigrate(t *testing.T) {
	url := "sqlite://" + filepath.Join(t.TempDir(), "todos.db")
	t.Setenv("TODO_DATABASE_URL", url)

	log := logger.NewDefault(logger.WithOutput(io.Discard))
	ctx := context.Background()

	if err := execute(ctx, log, "migrate"); err != nil {
		t.Fatalf("execute(migrate) error = %v", err)
	}
	// A second run is a no-op.
	if err := execute(ctx, log, "migrate"); err != nil {
		t.Fatalf("second execute(migrate) error = %v", err)
	}

	db, err := sqlitedb.Open(ctx, sqlitedb.Options{DatabaseURL: url}, log.Logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqlitedb.Close(db) })

	if !db.Migrator().HasTable("todos") {
		t.Error("todos table missing after migrate")
	}
}

func TestExecuteMissingDatabaseURL(t *testing.T) {
	t.Setenv("TODO_DATABASE_URL", "")

	log := logger.NewDefault(logger.WithOutput(io.Discard))
	if err := execute(context.Background(), log, "migrate"); err == nil {
		t.Fatal("execute(migrate) without a database url returned nil")
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	log := logger.NewDefault(logger.WithOutput(io.Discard))
	if err := execute(context.Background(), log, "nope"); err != nil {
		t.Fatalf("execute(nope) error = %v", err)
	}
}
