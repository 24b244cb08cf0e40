package todospgxstore_test

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/jrazmi/todolist/core/repositories/todosrepo/stores/todospgxstore"
	"github.com/jrazmi/todolist/core/repositories/todosrepo/storetest"
	"github.com/jrazmi/todolist/infrastructure/postgresdb"
	"github.com/jrazmi/todolist/sdk/logger"
)

func TestStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	log := logger.NewDefault(logger.WithOutput(io.Discard))

	pool, err := postgresdb.NewTestDB(ctx, url,
		postgresdb.WithLogger(log.Logger),
		postgresdb.WithLogQueries(testing.Verbose()),
	)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := postgresdb.Migrate(ctx, pool, log.Logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, "TRUNCATE todos"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	t.Cleanup(func() {
		pool.Exec(context.Background(), "TRUNCATE todos")
	})

	storetest.Run(t, todospgxstore.NewStore(log, pool))
}
