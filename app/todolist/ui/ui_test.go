package ui_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrazmi/todolist/app/todolist/ui"
	"github.com/jrazmi/todolist/infrastructure/web"
)

func TestAddHandlers(t *testing.T) {
	wh := web.NewWebHandler(web.HandlerOptions{})
	if err := ui.AddHandlers(wh, "/api"); err != nil {
		t.Fatalf("AddHandlers() error = %v", err)
	}

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/", "text/html", `data-api="/api"`},
		{"/static/app.js", "javascript", "fetchTodos"},
		{"/static/style.css", "text/css", ".todo"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		wh.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d", tt.path, rec.Code)
			continue
		}
		if !strings.Contains(rec.Header().Get("Content-Type"), tt.contentType) {
			t.Errorf("GET %s content type = %q", tt.path, rec.Header().Get("Content-Type"))
		}
		if !strings.Contains(rec.Body.String(), tt.contains) {
			t.Errorf("GET %s body missing %q", tt.path, tt.contains)
		}
	}

	rec := httptest.NewRecorder()
	wh.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope status = %d, want 404", rec.Code)
	}
}
