package lumen

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lumen-go/lumen/pkg/render"
)

// Mode selects how the app serves its frontend.
type Mode int

const (
	// ModeDevelopment serves the raw HTML template on every request, rewrites
	// asset references with a cache-busting token, and injects the live-reload
	// client.
	ModeDevelopment Mode = iota

	// ModeProduction serves built assets from the dist directory with
	// long-lived cache headers and caches the HTML template in memory.
	ModeProduction
)

// String returns the environment name for the mode.
func (m Mode) String() string {
	if m == ModeProduction {
		return "production"
	}
	return "development"
}

// Config is the main application configuration.
type Config struct {
	// Mode selects development or production behavior. The zero value is
	// ModeDevelopment.
	Mode Mode

	// Addr is the listen address for Run (e.g. ":3000").
	// Default: ":3000".
	Addr string

	// TemplateFile is the path to the HTML shell containing the insertion
	// marker. Default: "public/index.html".
	TemplateFile string

	// StaticDir is the directory of source assets served in development.
	// Default: "public".
	StaticDir string

	// DistDir is the directory of built assets served in production.
	// Startup fails when the mode is production and this directory does not
	// exist. Default: "dist".
	DistDir string

	// StaticPrefix is the URL prefix static files are served under.
	// Default: "/".
	StaticPrefix string

	// DatabaseURL is surfaced to handlers that need it. It is read once at
	// startup and never re-read.
	DatabaseURL string

	// WatchPaths are the directories watched for changes in development.
	// Default: the static directory.
	WatchPaths []string

	// WatchIgnore are patterns excluded from watching, matched against
	// base names (e.g. "*.tmp", "node_modules").
	WatchIgnore []string

	// HotReload toggles the development live-reload channel: the injected
	// client, the websocket endpoint, and the file watcher. Nil means on.
	HotReload *bool

	// Renderer produces HTML fragments for page paths. When nil, every page
	// is served without server-rendered content (the marker is removed).
	Renderer *render.Renderer

	// MetricsRegistry backs the /metrics endpoint and the request metrics.
	// If nil, each App gets its own registry with the standard Go and
	// process collectors.
	MetricsRegistry *prometheus.Registry

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used when a field is left zero.
func DefaultConfig() Config {
	return Config{
		Mode:         ModeDevelopment,
		Addr:         ":3000",
		TemplateFile: "public/index.html",
		StaticDir:    "public",
		DistDir:      "dist",
		StaticPrefix: "/",
	}
}

// FromEnv builds a Config from the process environment. LUMEN_ENV selects
// the mode ("production" or anything else), PORT overrides the listen port,
// and DATABASE_URL is captured as-is. The environment is read exactly once;
// later changes to these variables have no effect on a running app.
func FromEnv() Config {
	cfg := DefaultConfig()
	if os.Getenv("LUMEN_ENV") == "production" {
		cfg.Mode = ModeProduction
	}
	if port := os.Getenv("PORT"); port != "" {
		// A value that is not a valid port keeps the default rather than
		// producing an address that fails at bind time.
		if n, err := strconv.Atoi(port); err == nil && n > 0 && n <= 65535 {
			cfg.Addr = ":" + port
		}
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	return cfg
}

func (cfg Config) hotReloadEnabled() bool {
	return cfg.HotReload == nil || *cfg.HotReload
}

func (cfg Config) withDefaults() Config {
	def := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.TemplateFile == "" {
		cfg.TemplateFile = def.TemplateFile
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = def.StaticDir
	}
	if cfg.DistDir == "" {
		cfg.DistDir = def.DistDir
	}
	if cfg.StaticPrefix == "" {
		cfg.StaticPrefix = def.StaticPrefix
	}
	return cfg
}
