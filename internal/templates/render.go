// Package templates handles HTML template rendering for pages and Datastar fragments.
package templates

import (
	"bytes"
	"encoding/json"
	"html/template"
	"io"
	"io/fs"
)

// funcMap provides common template functions.
var funcMap = template.FuncMap{
	// json embeds a value as a JavaScript literal
	"json": func(v any) (template.JS, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return template.JS(b), nil
	},
}

// Renderer holds parsed named HTML templates. It is safe for concurrent use.
type Renderer struct {
	templates *template.Template
}

// New parses every template in fsys matching patterns.
func New(fsys fs.FS, patterns ...string) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(fsys, patterns...)
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tmpl}, nil
}

// Render renders a named template to a string.
func (r *Renderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.Execute(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Execute renders a named template to w.
func (r *Renderer) Execute(w io.Writer, name string, data any) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
