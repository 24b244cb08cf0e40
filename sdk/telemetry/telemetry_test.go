package telemetry_test

import (
	"context"
	"testing"

	"github.com/jrazmi/todolist/sdk/cryptids"
	"github.com/jrazmi/todolist/sdk/telemetry"
)

func TestTraceID(t *testing.T) {
	tel := telemetry.NewTelemetry()
	ctx := context.Background()

	if got := tel.GetTraceID(ctx); got != telemetry.NoTrace {
		t.Errorf("GetTraceID() without trace = %q", got)
	}
	if got := tel.TraceIDOrEmpty(ctx); got != "" {
		t.Errorf("TraceIDOrEmpty() without trace = %q", got)
	}

	a := tel.SetTraceID(ctx)
	b := tel.SetTraceID(ctx)

	tid := tel.GetTraceID(a)
	if len(tid) != cryptids.IDLength {
		t.Errorf("trace id %q has length %d", tid, len(tid))
	}
	if tid == tel.GetTraceID(b) {
		t.Error("two requests share a trace id")
	}
	if tel.TraceIDOrEmpty(a) != tid {
		t.Errorf("TraceIDOrEmpty() = %q, want %q", tel.TraceIDOrEmpty(a), tid)
	}
}
