// Package lumen is a universal web server for single-page frontends. One
// App serves the HTML shell with server-rendered content injected, static
// assets, and a JSON API, in either development mode (hot reload,
// cache-busted assets, shell re-read per request) or production mode
// (built assets, long-lived cache headers, cached shell).
package lumen

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumen-go/lumen/internal/api"
	"github.com/lumen-go/lumen/internal/dev"
	lumenerrors "github.com/lumen-go/lumen/internal/errors"
	"github.com/lumen-go/lumen/pkg/assets"
	"github.com/lumen-go/lumen/pkg/middleware"
)

// stage is one step of the request pipeline. Stages are tried in order and
// the first match handles the request, so mounting order is fixed at startup:
// static assets, then dev endpoints, then the API, then the HTML catch-all.
type stage struct {
	name    string
	match   func(r *http.Request) bool
	handler http.Handler
}

// App is a universal web server. It serves one HTML shell with optional
// server-rendered content, static assets, and a JSON API, switching between
// development and production behavior via Config.Mode.
type App struct {
	config   Config
	logger   *slog.Logger
	staticFS http.FileSystem

	// template is the cached shell in production; nil in development, where
	// the shell is re-read on every request.
	template *Template

	devAdapter *dev.Adapter
	registrar  *api.Registrar
	resolver   assets.Resolver

	pipeline []stage
	handler  http.Handler
}

// New builds the app and its request pipeline. In production mode it fails
// when the built asset directory is missing rather than starting a server
// that can only 404.
func New(cfg Config) (*App, error) {
	cfg = cfg.withDefaults()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		config: cfg,
		logger: logger,
	}

	if cfg.Mode == ModeProduction {
		info, err := os.Stat(cfg.DistDir)
		if err != nil || !info.IsDir() {
			return nil, lumenerrors.New("E121").
				WithDetail("expected directory: " + cfg.DistDir).
				WithSuggestion("build the project first, or run in development mode")
		}
		a.staticFS = http.Dir(cfg.DistDir)

		// manifest.json is written by the asset build; without one, source
		// names resolve to themselves.
		manifest, err := assets.Load(filepath.Join(cfg.DistDir, "manifest.json"))
		if err != nil {
			manifest = assets.NewManifest()
		}
		a.resolver = assets.NewResolver(manifest, cfg.StaticPrefix)

		tmpl, err := LoadTemplate(cfg.TemplateFile)
		if err != nil {
			return nil, err
		}
		a.template = tmpl
	} else {
		a.staticFS = http.Dir(cfg.StaticDir)
		a.devAdapter = dev.NewAdapter(logger)
		a.devAdapter.DisableReload = !cfg.hotReloadEnabled()

		// Dev serves assets under their source names; the per-request
		// transform handles cache busting.
		a.resolver = assets.NewResolver(assets.NewManifest(), cfg.StaticPrefix)

		// Validate the shell once up front so a broken marker surfaces at
		// startup, not on the first request.
		if _, err := LoadTemplate(cfg.TemplateFile); err != nil {
			return nil, err
		}
	}

	a.registrar = api.New(api.Options{
		Env:    cfg.Mode.String(),
		Logger: logger,
	})

	a.buildPipeline()
	return a, nil
}

// buildPipeline assembles the ordered stages and wraps them in the metrics
// and tracing middleware.
func (a *App) buildPipeline() {
	registry := a.config.MetricsRegistry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	apiRouter := chi.NewRouter()
	a.registrar.Register(apiRouter)

	a.pipeline = []stage{
		{
			name: "static",
			match: func(r *http.Request) bool {
				return a.shouldServeStatic(r.URL.Path)
			},
			handler: http.HandlerFunc(a.serveStatic),
		},
	}

	if a.devAdapter != nil && !a.devAdapter.DisableReload {
		a.pipeline = append(a.pipeline, stage{
			name: "reload",
			match: func(r *http.Request) bool {
				return r.URL.Path == dev.ReloadPath
			},
			handler: a.devAdapter.Hub(),
		})
	}

	a.pipeline = append(a.pipeline,
		stage{
			name: "metrics",
			match: func(r *http.Request) bool {
				return r.URL.Path == "/metrics"
			},
			handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		},
		stage{
			name: "api",
			match: func(r *http.Request) bool {
				return r.URL.Path == api.Prefix || strings.HasPrefix(r.URL.Path, api.Prefix+"/")
			},
			handler: apiRouter,
		},
		stage{
			name:    "page",
			match:   func(*http.Request) bool { return true },
			handler: http.HandlerFunc(a.servePage),
		},
	)

	var h http.Handler = http.HandlerFunc(a.dispatch)
	h = middleware.OpenTelemetry()(h)
	h = middleware.Prometheus(middleware.WithRegistry(registry))(h)
	a.handler = h
}

// dispatch walks the pipeline and hands the request to the first matching
// stage. The final stage matches everything, so it always terminates.
func (a *App) dispatch(w http.ResponseWriter, r *http.Request) {
	for _, s := range a.pipeline {
		if s.match(r) {
			s.handler.ServeHTTP(w, r)
			return
		}
	}
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// servePage is the catch-all: it serves the HTML shell, with rendered content
// injected, for every path nothing else claimed. Client-side routes like
// /about or /users/42 all land here and receive the same shell.
func (a *App) servePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	tmpl := a.template
	if tmpl == nil {
		// Development re-reads the shell on every request so edits show up
		// without a restart.
		loaded, err := LoadTemplate(a.config.TemplateFile)
		if err != nil {
			a.logger.Error("template load failed", "error", err)
			a.devError(err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		tmpl = loaded
	}

	var fragment string
	if a.config.Renderer != nil {
		fragment = a.config.Renderer.Render(r.URL.Path)
	}

	html := tmpl.Inject(fragment)

	if a.devAdapter != nil {
		transformed, err := a.devAdapter.Transform(r.URL.Path, html)
		if err != nil {
			a.logger.Error("template transform failed", "error", err)
			a.devError(err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		html = transformed
		a.devAdapter.Hub().ClearError()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if a.config.Mode == ModeProduction {
		w.Header().Set("Cache-Control", "no-cache")
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		w.Write([]byte(html))
	}
}

// devError pushes a serving error to connected browsers' error overlay.
func (a *App) devError(err error) {
	if a.devAdapter != nil {
		a.devAdapter.Hub().NotifyError(err.Error())
	}
}

// Registrar exposes the API registrar, for mounting extra handler groups in
// tests and embedding servers.
func (a *App) Registrar() *api.Registrar {
	return a.registrar
}

// Assets resolves source asset names to the paths browsers should fetch.
// In production the resolution goes through the build manifest, so views
// can reference "app.js" and serve "app.a1b2c3d4.js".
func (a *App) Assets() assets.Resolver {
	return a.resolver
}

// Mode returns the mode the app was built with.
func (a *App) Mode() Mode {
	return a.config.Mode
}

// Run serves the app until ctx is canceled, then drains in-flight requests.
// In development it also starts the file watcher that feeds the live-reload
// channel.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.config.Addr,
		Handler:           a,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if a.devAdapter != nil {
		paths := a.config.WatchPaths
		if len(paths) == 0 {
			paths = []string{a.config.StaticDir}
		}
		a.devAdapter.Watch(ctx, dev.WatcherConfig{
			Paths:  paths,
			Ignore: a.config.WatchIgnore,
			Logger: a.logger,
		})
		defer a.devAdapter.Close()
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening",
			"mode", a.config.Mode.String(),
			"url", "http://localhost"+a.config.Addr,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return lumenerrors.New("E122").
				WithDetail("listen address: " + a.config.Addr).
				Wrap(err)
		}
		return err
	}
}
