package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

type pages struct {
	tmpl *template.Template
}

func parsePages() (*pages, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"delay": cardDelay,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &pages{tmpl: t}, nil
}

// cardDelay staggers the slide-in of result cards.
func cardDelay(i int) template.CSS {
	return template.CSS(fmt.Sprintf("animation-delay: %.2fs", float64(i)*0.05))
}

// render executes name into a buffer first so a template error never leaves
// a half-written page behind.
func (p *pages) render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
