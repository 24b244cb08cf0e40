package todosrepo

import (
	"fmt"
	"time"
)

// Status is the completion state of a todo.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// ParseStatus returns the Status named by s.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, s)
}

// Todo is a single task.
type Todo struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Status      Status    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// CreateTodo is the input to Repository.Create.
type CreateTodo struct {
	Title       string
	Description *string
}

// UpdateTodo is the input to Repository.Update. A nil or empty Title keeps the
// current title. Description only applies when DescriptionSet is true, in
// which case a nil Description clears it.
type UpdateTodo struct {
	Title          *string
	Description    *string
	DescriptionSet bool
}
