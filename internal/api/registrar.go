// Package api mounts every API handler group under the /api prefix.
//
// The registrar is the single place routes are added; the app pipeline
// guarantees it runs ahead of the SPA catch-all, so /api paths are never
// swallowed by the HTML fallback. Adding a new handler group is a pure
// addition to New; existing groups are never removed or reordered.
package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// Prefix is the URL prefix all API routes live under.
const Prefix = "/api"

// Options configures the registrar.
type Options struct {
	// Env is the environment name reported by the health endpoint
	// ("development" or "production").
	Env string

	// Logger receives handler errors. Defaults to slog.Default().
	Logger *slog.Logger
}

// Registrar owns the API router and its handler groups.
type Registrar struct {
	router    chi.Router
	logger    *slog.Logger
	env       string
	startedAt time.Time

	registerOnce sync.Once
}

// New builds the registrar and its routes. The route table is fixed after
// New returns; there is no dynamic registration at runtime.
func New(opts Options) *Registrar {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reg := &Registrar{
		logger:    logger,
		env:       opts.Env,
		startedAt: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(reg.recoverer)

	r.Get("/health", reg.handleHealth)

	users := newUserHandlers(logger)
	r.Route("/users", func(r chi.Router) {
		r.Get("/", users.list)
		r.Post("/", users.create)
		r.Get("/{id}", users.get)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	reg.router = r
	return reg
}

// Register mounts the API router under Prefix on the given parent router.
// Calling it more than once is a no-op, so a double startup path cannot
// duplicate routes.
func (reg *Registrar) Register(parent chi.Router) {
	reg.registerOnce.Do(func() {
		parent.Mount(Prefix, reg.router)
	})
}

// Handler returns the API router rooted at Prefix, for mounting on a plain
// http.ServeMux or for tests.
func (reg *Registrar) Handler() http.Handler {
	root := chi.NewRouter()
	root.Mount(Prefix, reg.router)
	return root
}

// recoverer converts handler panics into opaque 500 responses. The panic
// is logged with the request path; the client never sees a stack trace.
func (reg *Registrar) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				reg.logger.Error("handler panic", "path", r.URL.Path, "error", rec)
				writeError(w, http.StatusInternalServerError, "internal server error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
