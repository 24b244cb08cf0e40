package config

import (
	"context"
	"fmt"

	"github.com/jrazmi/todolist/core/repositories/todosrepo"
	"github.com/jrazmi/todolist/core/repositories/todosrepo/stores/todosgormstore"
	"github.com/jrazmi/todolist/core/repositories/todosrepo/stores/todospgxstore"
	"github.com/jrazmi/todolist/infrastructure/postgresdb"
	"github.com/jrazmi/todolist/infrastructure/sqlitedb"
	"github.com/jrazmi/todolist/sdk/environment"
	"github.com/jrazmi/todolist/sdk/logger"
)

// Datastore kinds.
const (
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
)

// Datastore is an open store handle with its lifecycle hooks.
type Datastore struct {
	Kind    string
	Storer  todosrepo.Storer
	migrate func(ctx context.Context) error
	close   func() error
}

// Migrate brings the schema up to date.
func (d *Datastore) Migrate(ctx context.Context) error {
	return d.migrate(ctx)
}

// Close releases the connection pool.
func (d *Datastore) Close() error {
	return d.close()
}

// OpenDatastore connects to <prefix>_DATABASE_URL. SQLite DSNs open the gorm
// store, anything else is treated as a PostgreSQL URL.
func OpenDatastore(ctx context.Context, prefix string, log *logger.Logger) (*Datastore, error) {
	url := environment.GetNamespaceEnvValue(prefix, "DATABASE_URL")
	if url == "" {
		return nil, fmt.Errorf("%s is required", environment.GetEnvKeyPrefix(prefix, "DATABASE_URL"))
	}

	if sqlitedb.IsDSN(url) {
		var opts sqlitedb.Options
		if err := environment.ParseEnvTags(prefix, &opts); err != nil {
			return nil, fmt.Errorf("parsing sqlite config: %w", err)
		}

		db, err := sqlitedb.Open(ctx, opts, log.Logger)
		if err != nil {
			return nil, err
		}

		store := todosgormstore.NewStore(log, db)
		return &Datastore{
			Kind:    KindSQLite,
			Storer:  store,
			migrate: store.Migrate,
			close:   func() error { return sqlitedb.Close(db) },
		}, nil
	}

	pool, err := postgresdb.NewFromEnv(ctx, prefix, postgresdb.WithLogger(log.Logger))
	if err != nil {
		return nil, err
	}

	return &Datastore{
		Kind:   KindPostgres,
		Storer: todospgxstore.NewStore(log, pool),
		migrate: func(ctx context.Context) error {
			return postgresdb.Migrate(ctx, pool, log.Logger)
		},
		close: func() error {
			pool.Close()
			return nil
		},
	}, nil
}
