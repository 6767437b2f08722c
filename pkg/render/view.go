package render

import (
	"html/template"
	"io"
)

// TemplateView builds a View from a named html/template. The template
// receives the PageData as its dot value and benefits from contextual
// escaping.
func TemplateView(t *template.Template, name string) View {
	return func(w io.Writer, data PageData) error {
		return t.ExecuteTemplate(w, name, data)
	}
}

// StaticView builds a View that always writes the same fragment. Useful for
// pages with no data dependencies.
func StaticView(fragment string) View {
	return func(w io.Writer, _ PageData) error {
		_, err := io.WriteString(w, fragment)
		return err
	}
}
