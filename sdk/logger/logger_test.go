package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jrazmi/todolist/sdk/logger"
)

type ctxKey struct{}

func TestTraceIDIsStamped(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(
		logger.WithOutput(&buf),
		logger.WithTraceIDFn(func(ctx context.Context) string {
			v, _ := ctx.Value(ctxKey{}).(string)
			return v
		}),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "trace-123")
	log.InfoContext(ctx, "request started", "path", "/api/todos")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v (%s)", err, buf.String())
	}
	if rec["trace_id"] != "trace-123" {
		t.Errorf("trace_id = %v", rec["trace_id"])
	}
	if rec["path"] != "/api/todos" {
		t.Errorf("path = %v", rec["path"])
	}
}

func TestTraceIDOmittedWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(
		logger.WithOutput(&buf),
		logger.WithTraceIDFn(func(ctx context.Context) string { return "" }),
	)

	log.InfoContext(context.Background(), "startup")

	if strings.Contains(buf.String(), "trace_id") {
		t.Errorf("unexpected trace_id in %s", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(logger.WithOutput(&buf), logger.WithLevel("warn"))

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record logged at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %s", out)
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(logger.WithOutput(&buf), logger.WithFormat("pretty"))

	log.Info("listening", "addr", ":8080")

	out := buf.String()
	if !strings.Contains(out, "listening") || !strings.Contains(out, ":8080") {
		t.Errorf("pretty output missing fields: %q", out)
	}
}

func TestSourceFromEnv(t *testing.T) {
	t.Setenv("SRC_LOG_SOURCE", "true")

	var buf bytes.Buffer
	log, err := logger.NewFromEnv("SRC", logger.WithOutput(&buf))
	if err != nil {
		t.Fatalf("NewFromEnv() error = %v", err)
	}

	log.Info("with source")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v (%s)", err, buf.String())
	}
	if _, ok := rec["source"]; !ok {
		t.Errorf("source missing from %s", buf.String())
	}
}
