// Package todosrepobridge exposes the todo repository over HTTP.
package todosrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrazmi/todolist/bridge/scaffolding/errs"
	"github.com/jrazmi/todolist/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/todolist/core/repositories/todosrepo"
	"github.com/jrazmi/todolist/infrastructure/web"
	"github.com/jrazmi/todolist/sdk/logger"
)

// Config holds configuration for the todo bridge.
type Config struct {
	Log        *logger.Logger
	Repository *todosrepo.Repository
	Middleware []web.Middleware
}

// AddHttpRoutes registers the todo routes on group.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Repository)

	group.GET("/todos", b.httpList, cfg.Middleware...)
	group.POST("/todos", b.httpCreate, cfg.Middleware...)
	group.PUT("/todos/{id}", b.httpUpdate, cfg.Middleware...)
	group.DELETE("/todos/{id}", b.httpDelete, cfg.Middleware...)
	group.PUT("/todos/{id}/status", b.httpSetStatus, cfg.Middleware...)
}

// AddCheckRoutes registers the readiness and liveness probes on group.
func AddCheckRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Repository)

	group.GET("/readiness", b.httpReadiness)
	group.GET("/liveness", b.httpLiveness)
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	todos, err := b.todoRepository.List(ctx)
	if err != nil {
		return errs.Wrap(errs.Internal, msgFetchFailed, err)
	}

	return web.NewJSONResponse(MarshalListToBridge(todos))
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	var input CreateTodoInput
	if err := web.Decode(r, &input); err != nil {
		return b.decodeError(ctx, err)
	}

	todo, err := b.todoRepository.Create(ctx, MarshalCreateToRepository(input))
	if err != nil {
		if errors.Is(err, todosrepo.ErrInvalidArgument) {
			return errs.Wrap(errs.InvalidArgument, msgTitleRequired, err)
		}
		return errs.Wrap(errs.Internal, msgCreateFailed, err)
	}

	return web.NewJSONResponseWithStatus(MarshalToBridge(todo), http.StatusCreated)
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	id := web.Param(r, "id")

	var input UpdateTodoInput
	if err := web.Decode(r, &input); err != nil {
		return b.decodeError(ctx, err)
	}

	todo, err := b.todoRepository.Update(ctx, id, MarshalUpdateToRepository(input))
	if err != nil {
		if errors.Is(err, todosrepo.ErrNotFound) {
			return errs.Wrap(errs.NotFound, msgNotFound, err).WithID(id)
		}
		return errs.Wrap(errs.Internal, msgUpdateFailed, err)
	}

	return web.NewJSONResponse(MarshalToBridge(todo))
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	id := web.Param(r, "id")

	if err := b.todoRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, todosrepo.ErrNotFound) {
			return errs.Wrap(errs.NotFound, msgNotFound, err).WithID(id)
		}
		return errs.Wrap(errs.Internal, msgDeleteFailed, err)
	}

	return fopbridge.NewMessageResponse(msgDeleted, id)
}

func (b *bridge) httpSetStatus(ctx context.Context, r *http.Request) web.Encoder {
	id := web.Param(r, "id")

	var input SetStatusInput
	if err := web.Decode(r, &input); err != nil {
		return b.decodeError(ctx, err)
	}

	todo, err := b.todoRepository.SetStatus(ctx, id, input.Status)
	if err != nil {
		switch {
		case errors.Is(err, todosrepo.ErrInvalidArgument):
			return errs.Wrap(errs.InvalidArgument, msgStatusInvalid, err)
		case errors.Is(err, todosrepo.ErrNotFound):
			return errs.Wrap(errs.NotFound, msgNotFound, err).WithID(id)
		}
		return errs.Wrap(errs.Internal, msgUpdateStatusFailed, err)
	}

	return web.NewJSONResponse(MarshalToBridge(todo))
}

func (b *bridge) httpReadiness(ctx context.Context, r *http.Request) web.Encoder {
	if err := b.todoRepository.Check(ctx); err != nil {
		return errs.Wrap(errs.Unavailable, msgUnavailable, err)
	}
	return fopbridge.NewStatusResponse("ok", http.StatusOK)
}

func (b *bridge) httpLiveness(ctx context.Context, r *http.Request) web.Encoder {
	return fopbridge.NewStatusResponse("ok", http.StatusOK)
}

// decodeError turns a web.Decode failure into a 400.
func (b *bridge) decodeError(ctx context.Context, err error) web.Encoder {
	var ie *inputError
	if errors.As(err, &ie) {
		return errs.Wrap(errs.InvalidArgument, ie.message, err)
	}

	b.log.DebugContext(ctx, "rejected request body", "err", err)
	return errs.Wrap(errs.InvalidArgument, msgInvalidBody, err)
}
