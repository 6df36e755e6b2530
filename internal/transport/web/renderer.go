package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns a named view plus data into HTML. Handlers depend on this
// interface so tests can swap in a failing or recording implementation.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// HTMLRenderer serves the embedded templates.
type HTMLRenderer struct {
	templates *template.Template
}

func NewHTMLRenderer() (*HTMLRenderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &HTMLRenderer{templates: t}, nil
}

func (r *HTMLRenderer) Render(w io.Writer, name string, data any) error {
	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}
