package lumen

import (
	"os"
	"strings"

	lumenerrors "github.com/lumen-go/lumen/internal/errors"
)

// InsertionMarker is the comment the HTML shell must contain exactly once.
// Server-rendered content replaces it; when there is nothing to render the
// marker is removed and the page falls back to pure client-side rendering.
const InsertionMarker = "<!--ssr-outlet-->"

// Template is a loaded and validated HTML shell.
type Template struct {
	raw    string
	before string
	after  string
}

// LoadTemplate reads and validates the HTML shell at path.
func LoadTemplate(path string) (*Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, lumenerrors.New("E141").
			WithDetail("template file: " + path).
			Wrap(err)
	}
	return ParseTemplate(string(raw), path)
}

// ParseTemplate validates raw shell HTML. It requires exactly one insertion
// marker: zero markers mean rendered content would be silently dropped, and
// more than one makes the insertion point ambiguous.
func ParseTemplate(raw, name string) (*Template, error) {
	switch strings.Count(raw, InsertionMarker) {
	case 0:
		return nil, lumenerrors.New("E142").
			WithDetail("template file: " + name).
			WithSuggestion("add " + InsertionMarker + " where server-rendered HTML should appear")
	case 1:
	default:
		return nil, lumenerrors.New("E143").
			WithDetail("template file: " + name)
	}

	before, after, _ := strings.Cut(raw, InsertionMarker)
	return &Template{raw: raw, before: before, after: after}, nil
}

// Inject returns the full page with fragment in place of the marker.
// An empty fragment yields the shell with the marker removed.
func (t *Template) Inject(fragment string) string {
	if fragment == "" {
		return t.before + t.after
	}
	return t.before + fragment + t.after
}

// Raw returns the template source with the marker still in place.
func (t *Template) Raw() string {
	return t.raw
}
