package mid

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/jrazmi/todolist/bridge/scaffolding/errs"
	"github.com/jrazmi/todolist/infrastructure/web"
)

// Panics recovers from panics and converts the panic to an error so it is
// reported in Errors and handled.
func Panics() web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) (resp web.Encoder) {
			defer func() {
				if rec := recover(); rec != nil {
					trace := debug.Stack()
					resp = errs.Wrap(errs.InternalOnlyLog, "Internal Server Error",
						fmt.Errorf("PANIC [%v] TRACE[%s]", rec, string(trace)))
				}
			}()

			return next(ctx, r)
		}
	}
}
