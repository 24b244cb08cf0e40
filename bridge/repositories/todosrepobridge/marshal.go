package todosrepobridge

import (
	"github.com/jrazmi/todolist/core/repositories/todosrepo"
	"github.com/jrazmi/todolist/sdk/validation"
)

// MarshalToBridge converts a repository todo to its wire form.
func MarshalToBridge(todo todosrepo.Todo) Todo {
	return Todo{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Status:      string(todo.Status),
		CreatedAt:   validation.FormatISOTime(todo.CreatedAt),
		UpdatedAt:   validation.FormatISOTime(todo.UpdatedAt),
	}
}

// MarshalListToBridge converts a list of repository todos. The result is never
// nil so an empty list encodes as [].
func MarshalListToBridge(todos []todosrepo.Todo) []Todo {
	out := make([]Todo, len(todos))
	for i, todo := range todos {
		out[i] = MarshalToBridge(todo)
	}
	return out
}

// MarshalCreateToRepository converts the create body to repository input.
func MarshalCreateToRepository(in CreateTodoInput) todosrepo.CreateTodo {
	return todosrepo.CreateTodo{
		Title:       in.Title,
		Description: in.Description,
	}
}

// MarshalUpdateToRepository converts the update body to repository input.
func MarshalUpdateToRepository(in UpdateTodoInput) todosrepo.UpdateTodo {
	return todosrepo.UpdateTodo{
		Title:          in.Title,
		Description:    in.Description,
		DescriptionSet: in.DescriptionSet,
	}
}
