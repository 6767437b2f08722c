package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"strings"
)

// FallbackFragment is emitted when a view errors or panics. It is a valid,
// minimal fragment so the surrounding page still parses; the client router
// takes over from there.
const FallbackFragment = `<div data-lumen-render="failed"></div>`

// PageData is the input to a view. It is derived entirely from the route
// path so that rendering stays deterministic.
type PageData struct {
	// Path is the request path being rendered.
	Path string

	// Title is the page title, when the view or data func sets one.
	Title string

	// State is an application state snapshot serialized for hydration.
	// Views must treat it as read-only.
	State map[string]any
}

// View writes the HTML fragment for one route.
type View func(w io.Writer, data PageData) error

// RendererConfig configures a Renderer.
type RendererConfig struct {
	// Logger receives render failures. Defaults to slog.Default().
	Logger *slog.Logger

	// NotFound is the view used for unmatched paths. When nil, a built-in
	// minimal not-found fragment is used.
	NotFound View

	// Data derives PageData from a route path. When nil, PageData carries
	// only the path. The function must be pure for determinism.
	Data func(path string) PageData
}

// Renderer maps route patterns to views and renders paths to fragments.
// Pattern registration happens before the server starts; the route set is
// read-only afterwards, so Render is safe for concurrent use.
type Renderer struct {
	routes   []route
	notFound View
	data     func(path string) PageData
	logger   *slog.Logger
}

type route struct {
	pattern string
	prefix  bool // pattern ended in "/*"
	view    View
}

// NewRenderer creates a Renderer with the given configuration.
func NewRenderer(cfg RendererConfig) *Renderer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	notFound := cfg.NotFound
	if notFound == nil {
		notFound = func(w io.Writer, data PageData) error {
			_, err := fmt.Fprintf(w, `<main data-lumen-view="not-found"><h1>Not Found</h1><p>%s</p></main>`,
				template.HTMLEscapeString(data.Path))
			return err
		}
	}

	data := cfg.Data
	if data == nil {
		data = func(path string) PageData {
			return PageData{Path: path}
		}
	}

	return &Renderer{
		notFound: notFound,
		data:     data,
		logger:   logger,
	}
}

// Handle registers a view for a route pattern. A pattern ending in "/*"
// matches any path under that prefix; all other patterns match exactly.
// Registration is not safe to call after the server starts serving.
func (r *Renderer) Handle(pattern string, view View) {
	if view == nil {
		return
	}
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		r.routes = append(r.routes, route{pattern: prefix, prefix: true, view: view})
		return
	}
	r.routes = append(r.routes, route{pattern: pattern, view: view})
}

// Render produces the HTML fragment for a route path.
//
// Unmatched paths resolve to the not-found view. A view that returns an
// error or panics is logged and replaced by FallbackFragment; errors never
// propagate to the HTTP layer.
func (r *Renderer) Render(path string) string {
	view := r.match(path)

	var buf bytes.Buffer
	if err := r.renderView(&buf, view, r.data(path)); err != nil {
		r.logger.Error("render failed", "path", path, "error", err)
		return FallbackFragment
	}
	return buf.String()
}

// match finds the view for a path. Exact matches win over prefix matches;
// among prefix matches, the longest prefix wins.
func (r *Renderer) match(path string) View {
	var (
		best    View
		bestLen = -1
	)
	for _, rt := range r.routes {
		if !rt.prefix {
			if rt.pattern == path {
				return rt.view
			}
			continue
		}
		if path == rt.pattern || strings.HasPrefix(path, rt.pattern+"/") {
			if len(rt.pattern) > bestLen {
				best = rt.view
				bestLen = len(rt.pattern)
			}
		}
	}
	if best != nil {
		return best
	}
	return r.notFound
}

// renderView runs one view with panic isolation.
func (r *Renderer) renderView(w io.Writer, view View, data PageData) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("view panic: %v", rec)
		}
	}()
	return view(w, data)
}
