package todosrepobridge

import (
	"github.com/jrazmi/todolist/core/repositories/todosrepo"
	"github.com/jrazmi/todolist/sdk/logger"
)

// bridge provides HTTP handlers for todo operations.
type bridge struct {
	log            *logger.Logger
	todoRepository *todosrepo.Repository
}

func newBridge(log *logger.Logger, todoRepository *todosrepo.Repository) *bridge {
	return &bridge{
		log:            log,
		todoRepository: todoRepository,
	}
}
