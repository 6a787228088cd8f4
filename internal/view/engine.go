// Package view adapts embedded html/template pages to fiber's Views
// interface. Every page template is parsed together with the shared layout,
// so handlers render by page name and the layout wraps it.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Engine implements fiber.Views over the embedded templates.
type Engine struct {
	pages map[string]*template.Template
}

// New parses the embedded templates. Parse failures are startup errors.
func New() (*Engine, error) {
	entries, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(entries))
	for _, entry := range entries {
		if entry == layoutFile {
			continue
		}

		name := strings.TrimSuffix(path.Base(entry), ".html")
		tmpl, err := template.ParseFS(templateFS, layoutFile, entry)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", entry, err)
		}
		pages[name] = tmpl
	}

	return &Engine{pages: pages}, nil
}

// Load satisfies fiber.Views; parsing already happened in New.
func (e *Engine) Load() error {
	return nil
}

// Render writes the named page wrapped in the layout.
func (e *Engine) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	tmpl, ok := e.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	return tmpl.ExecuteTemplate(w, "layout", data)
}
