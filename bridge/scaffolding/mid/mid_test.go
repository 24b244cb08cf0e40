package mid_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrazmi/todolist/bridge/scaffolding/errs"
	"github.com/jrazmi/todolist/bridge/scaffolding/mid"
	"github.com/jrazmi/todolist/infrastructure/web"
	"github.com/jrazmi/todolist/sdk/logger"
)

func newHandler(buf *bytes.Buffer) *web.WebHandler {
	log := logger.NewDefault(logger.WithOutput(buf))
	return web.NewWebHandler(web.HandlerOptions{},
		web.WithLogging(log.Logger),
		web.WithGlobalMiddleware(mid.Logger(log), mid.Errors(log), mid.Panics()),
	)
}

func serve(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return rec, body
}

func TestErrorsPassesAppErrors(t *testing.T) {
	var buf bytes.Buffer
	h := newHandler(&buf)
	h.GET("/missing", func(ctx context.Context, r *http.Request) web.Encoder {
		return errs.Newf(errs.NotFound, "Todo not found").WithID("x1")
	})

	rec, body := serve(t, h, "/missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	if body["error"] != "Todo not found" || body["id"] != "x1" {
		t.Errorf("body = %v", body)
	}
	if !strings.Contains(buf.String(), `"statuscode":404`) {
		t.Errorf("request log missing status: %s", buf.String())
	}
}

type plainError struct{ error }

func (plainError) Encode() ([]byte, string, error) { return []byte(`{}`), "application/json", nil }

func TestErrorsHidesUnknownErrors(t *testing.T) {
	var buf bytes.Buffer
	h := newHandler(&buf)
	h.GET("/boom", func(ctx context.Context, r *http.Request) web.Encoder {
		return plainError{errors.New("secret detail")}
	})

	rec, body := serve(t, h, "/boom")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if body["error"] != "Internal Server Error" {
		t.Errorf("body = %v", body)
	}
	if !strings.Contains(buf.String(), "secret detail") {
		t.Error("cause should be logged")
	}
}

func TestPanicsRecovers(t *testing.T) {
	var buf bytes.Buffer
	h := newHandler(&buf)
	h.GET("/panic", func(ctx context.Context, r *http.Request) web.Encoder {
		panic("kaboom")
	})

	rec, body := serve(t, h, "/panic")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if body["error"] != "Internal Server Error" {
		t.Errorf("body = %v", body)
	}
	if !strings.Contains(buf.String(), "kaboom") {
		t.Error("panic value should be logged")
	}
}
