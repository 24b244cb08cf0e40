// Package todosrepo is the record store for todos.
package todosrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/todolist/core/repositories"
	"github.com/jrazmi/todolist/sdk/logger"
	"github.com/jrazmi/todolist/sdk/validation"
)

// Set of error values for operations on the todo resource.
var (
	ErrNotFound        = repositories.ErrNotFound
	ErrInvalidArgument = repositories.ErrInvalidArgument
)

// Storer is the persistence contract. Update and Delete must return an error
// wrapping ErrNotFound when no row was affected.
type Storer interface {
	List(ctx context.Context) ([]Todo, error)
	Get(ctx context.Context, id string) (Todo, error)
	Create(ctx context.Context, todo Todo) error
	Update(ctx context.Context, todo Todo) error
	Delete(ctx context.Context, id string) error
	Check(ctx context.Context) error
}

// Clock returns the current time.
type Clock func() time.Time

// Repository manages todos. It owns id generation, timestamps and the
// merge rules for partial updates.
type Repository struct {
	log    *logger.Logger
	storer Storer
	now    Clock
	newID  func() string
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock replaces time.Now.
func WithClock(clock Clock) Option {
	return func(r *Repository) {
		r.now = clock
	}
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Repository) {
		r.newID = fn
	}
}

// NewRepository creates a new todo repository.
func NewRepository(log *logger.Logger, storer Storer, opts ...Option) *Repository {
	r := &Repository{
		log:    log,
		storer: storer,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns every todo, newest first.
func (r *Repository) List(ctx context.Context) ([]Todo, error) {
	records, err := r.storer.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("todo repository list: %w", err)
	}
	if records == nil {
		records = []Todo{}
	}
	return records, nil
}

// Create stores a new pending todo.
func (r *Repository) Create(ctx context.Context, input CreateTodo) (Todo, error) {
	if input.Title == "" {
		return Todo{}, fmt.Errorf("todo repository create: %w: title is required", ErrInvalidArgument)
	}

	description := validation.StringPtrIfNotEmpty(validation.GetStringOrEmpty(input.Description))

	now := r.timestamp()
	todo := Todo{
		ID:          r.newID(),
		Title:       input.Title,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := r.storer.Create(ctx, todo); err != nil {
		return Todo{}, fmt.Errorf("todo repository create: %w", err)
	}

	r.log.InfoContext(ctx, "todo created", "id", todo.ID)
	return todo, nil
}

// Get returns a single todo.
func (r *Repository) Get(ctx context.Context, id string) (Todo, error) {
	record, err := r.storer.Get(ctx, id)
	if err != nil {
		return Todo{}, fmt.Errorf("todo repository get: %w", err)
	}
	return record, nil
}

// Update merges input into the stored todo.
func (r *Repository) Update(ctx context.Context, id string, input UpdateTodo) (Todo, error) {
	todo, err := r.storer.Get(ctx, id)
	if err != nil {
		return Todo{}, fmt.Errorf("todo repository update: %w", err)
	}

	if input.Title != nil && *input.Title != "" {
		todo.Title = *input.Title
	}
	if input.DescriptionSet {
		todo.Description = input.Description
	}
	todo.UpdatedAt = r.nextUpdate(todo.UpdatedAt)

	if err := r.storer.Update(ctx, todo); err != nil {
		return Todo{}, fmt.Errorf("todo repository update: %w", err)
	}

	r.log.InfoContext(ctx, "todo updated", "id", todo.ID)
	return todo, nil
}

// SetStatus changes the status of a todo. The status is validated before the
// store is touched.
func (r *Repository) SetStatus(ctx context.Context, id string, status string) (Todo, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return Todo{}, fmt.Errorf("todo repository set status: %w", err)
	}

	todo, err := r.storer.Get(ctx, id)
	if err != nil {
		return Todo{}, fmt.Errorf("todo repository set status: %w", err)
	}

	todo.Status = st
	todo.UpdatedAt = r.nextUpdate(todo.UpdatedAt)

	if err := r.storer.Update(ctx, todo); err != nil {
		return Todo{}, fmt.Errorf("todo repository set status: %w", err)
	}

	r.log.InfoContext(ctx, "todo status changed", "id", todo.ID, "status", st)
	return todo, nil
}

// Delete removes a todo permanently.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.storer.Delete(ctx, id); err != nil {
		return fmt.Errorf("todo repository delete: %w", err)
	}

	r.log.InfoContext(ctx, "todo deleted", "id", id)
	return nil
}

// Check reports whether the store is reachable.
func (r *Repository) Check(ctx context.Context) error {
	if err := r.storer.Check(ctx); err != nil {
		return fmt.Errorf("todo repository check: %w", err)
	}
	return nil
}

func (r *Repository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

// nextUpdate returns the timestamp for a mutation, strictly after prev.
func (r *Repository) nextUpdate(prev time.Time) time.Time {
	now := r.timestamp()
	if !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}
