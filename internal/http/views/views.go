// Package views renders the console pages from embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/diagnosis/tourvisto-admin/pkg/logger"
)

//go:embed templates/*.html
var files embed.FS

var pages = []string{"dashboard", "trips", "trip_detail", "create_trip", "error"}

// Header is the title block every page starts with.
type Header struct {
	Title       string
	Description string
	CTAText     string
	CTAURL      string
}

type Page struct {
	Header Header
	Data   any
}

type Renderer struct {
	templates map[string]*template.Template
}

var funcs = template.FuncMap{
	"join": strings.Join,
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
	"pct": func(f float64) string { return fmt.Sprintf("%.0f%%", f) },
}

func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(files,
			"templates/layout.html", "templates/partials.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render executes into a buffer first so a template failure never leaves a
// half-written page behind.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	t, ok := r.templates[name]
	if !ok {
		logger.Error("unknown template", "name", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", page); err != nil {
		logger.Error("failed to render template", "name", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
