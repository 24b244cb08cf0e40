// Package telemetry carries a per-request trace id through the context.
package telemetry

import (
	"context"

	"github.com/jrazmi/todolist/sdk/cryptids"
)

type telKey int

const (
	traceIDKey telKey = iota + 1
)

// NoTrace is reported when a context carries no trace id.
const NoTrace = "--------NOTRACE--------"

// Telemetry satisfies web.Telemetry.
type Telemetry struct{}

// NewTelemetry creates a new telemetry instance.
func NewTelemetry() Telemetry {
	return Telemetry{}
}

// SetTraceID stores a fresh trace id in ctx.
func (t Telemetry) SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, traceIDKey, cryptids.GenerateID())
}

// GetTraceID returns the trace id stored by SetTraceID, or NoTrace.
func (t Telemetry) GetTraceID(ctx context.Context) string {
	v, ok := ctx.Value(traceIDKey).(string)
	if !ok {
		return NoTrace
	}
	return v
}

// TraceIDOrEmpty is GetTraceID for log stamping: contexts without a trace id
// yield an empty string so the attribute is omitted.
func (t Telemetry) TraceIDOrEmpty(ctx context.Context) string {
	v, _ := ctx.Value(traceIDKey).(string)
	return v
}
