// Package ui serves the browser client.
package ui

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/jrazmi/todolist/infrastructure/web"
)

//go:embed static
var staticFiles embed.FS

//go:embed templates/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type indexData struct {
	APIBase string
}

// page is a rendered HTML document.
type page []byte

func (p page) Encode() ([]byte, string, error) {
	return p, "text/html; charset=utf-8", nil
}

// AddHandlers mounts the page at / and its assets at /static/. apiBase is the
// prefix the client prepends to /todos.
func AddHandlers(wh *web.WebHandler, apiBase string) error {
	if err := wh.FileServer(staticFiles, "static", "/static/"); err != nil {
		return fmt.Errorf("static files: %w", err)
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, indexData{APIBase: strings.TrimSuffix(apiBase, "/")}); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	index := page(buf.Bytes())

	wh.GET("/{$}", func(ctx context.Context, r *http.Request) web.Encoder {
		return index
	})

	return nil
}
