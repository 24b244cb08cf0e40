// Package todospgxstore implements todosrepo.Storer on PostgreSQL.
package todospgxstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/todolist/core/repositories"
	"github.com/jrazmi/todolist/core/repositories/todosrepo"
	"github.com/jrazmi/todolist/infrastructure/postgresdb"
	"github.com/jrazmi/todolist/sdk/logger"
)

const columns = `id, title, description, status, created_at, updated_at`

type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

func (s *Store) List(ctx context.Context) ([]todosrepo.Todo, error) {
	query := `SELECT ` + columns + `
		FROM todos
		ORDER BY created_at DESC, id DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	todos, err := pgx.CollectRows(rows, pgx.RowToStructByName[todosrepo.Todo])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	for i := range todos {
		normalize(&todos[i])
	}
	return todos, nil
}

func (s *Store) Get(ctx context.Context, id string) (todosrepo.Todo, error) {
	query := `SELECT ` + columns + `
		FROM todos
		WHERE id = @id`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"id": id})
	if err != nil {
		return todosrepo.Todo{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	todo, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[todosrepo.Todo])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return todosrepo.Todo{}, fmt.Errorf("todo %s: %w", id, repositories.ErrNotFound)
		}
		return todosrepo.Todo{}, postgresdb.HandlePgError(err)
	}

	normalize(&todo)
	return todo, nil
}

func (s *Store) Create(ctx context.Context, todo todosrepo.Todo) error {
	query := `INSERT INTO todos (` + columns + `)
		VALUES (@id, @title, @description, @status, @created_at, @updated_at)`

	args := pgx.NamedArgs{
		"id":          todo.ID,
		"title":       todo.Title,
		"description": todo.Description,
		"status":      string(todo.Status),
		"created_at":  todo.CreatedAt,
		"updated_at":  todo.UpdatedAt,
	}

	if _, err := s.pool.Exec(ctx, query, args); err != nil {
		return postgresdb.HandlePgError(err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, todo todosrepo.Todo) error {
	query := `UPDATE todos
		SET title = @title,
			description = @description,
			status = @status,
			updated_at = @updated_at
		WHERE id = @id`

	args := pgx.NamedArgs{
		"id":          todo.ID,
		"title":       todo.Title,
		"description": todo.Description,
		"status":      string(todo.Status),
		"updated_at":  todo.UpdatedAt,
	}

	tag, err := s.pool.Exec(ctx, query, args)
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("todo %s: %w", todo.ID, repositories.ErrNotFound)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM todos WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("todo %s: %w", id, repositories.ErrNotFound)
	}
	return nil
}

func (s *Store) Check(ctx context.Context) error {
	return postgresdb.StatusCheck(ctx, s.pool)
}

// normalize returns timestamps in UTC regardless of the session time zone.
func normalize(t *todosrepo.Todo) {
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
}
