// Package todosgormstore implements todosrepo.Storer with gorm, used for
// SQLite databases.
package todosgormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrazmi/todolist/core/repositories"
	"github.com/jrazmi/todolist/core/repositories/todosrepo"
	"github.com/jrazmi/todolist/infrastructure/sqlitedb"
	"github.com/jrazmi/todolist/sdk/logger"
	"gorm.io/gorm"
)

// todoRow is the table layout. Timestamps are always set by the repository.
type todoRow struct {
	ID          string    `gorm:"column:id;primaryKey;type:text"`
	Title       string    `gorm:"column:title;type:text;not null"`
	Description *string   `gorm:"column:description;type:text"`
	Status      string    `gorm:"column:status;type:text;not null;check:todos_status_check,status IN ('pending', 'completed')"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (todoRow) TableName() string {
	return "todos"
}

func toRow(t todosrepo.Todo) todoRow {
	return todoRow{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func (r todoRow) toTodo() todosrepo.Todo {
	return todosrepo.Todo{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      todosrepo.Status(r.Status),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type Store struct {
	log *logger.Logger
	db  *gorm.DB
}

func NewStore(log *logger.Logger, db *gorm.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// Migrate creates or updates the todos table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&todoRow{}); err != nil {
		return fmt.Errorf("auto migrate todos: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]todosrepo.Todo, error) {
	var rows []todoRow
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	todos := make([]todosrepo.Todo, len(rows))
	for i, row := range rows {
		todos[i] = row.toTodo()
	}
	return todos, nil
}

func (s *Store) Get(ctx context.Context, id string) (todosrepo.Todo, error) {
	var row todoRow
	if err := s.db.WithContext(ctx).Take(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return todosrepo.Todo{}, fmt.Errorf("todo %s: %w", id, repositories.ErrNotFound)
		}
		return todosrepo.Todo{}, fmt.Errorf("get todo: %w", err)
	}
	return row.toTodo(), nil
}

func (s *Store) Create(ctx context.Context, todo todosrepo.Todo) error {
	row := toRow(todo)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, todo todosrepo.Todo) error {
	row := toRow(todo)

	// A map so that a nil description is written as NULL.
	result := s.db.WithContext(ctx).
		Model(&todoRow{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"title":       row.Title,
			"description": row.Description,
			"status":      row.Status,
			"updated_at":  row.UpdatedAt,
		})
	if err := result.Error; err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("todo %s: %w", todo.ID, repositories.ErrNotFound)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&todoRow{})
	if err := result.Error; err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("todo %s: %w", id, repositories.ErrNotFound)
	}
	return nil
}

func (s *Store) Check(ctx context.Context) error {
	return sqlitedb.StatusCheck(ctx, s.db)
}
