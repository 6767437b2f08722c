package dev

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"regexp"
	"strings"
)

// assetRef matches local script and stylesheet references eligible for
// cache busting. External URLs (no leading "/") and references that already
// carry a query are left alone.
var assetRef = regexp.MustCompile(`(src|href)="(/[^"?#]+\.(?:js|mjs|css))"`)

// Adapter is the development-mode asset pipeline: it transforms the HTML
// shell on every request and owns the reload hub.
type Adapter struct {
	hub    *Hub
	logger *slog.Logger

	// DisableReload turns off client script injection and the file watcher.
	// Cache busting still applies. Set it before serving requests.
	DisableReload bool
}

// NewAdapter creates a development adapter.
func NewAdapter(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		hub:    NewHub(),
		logger: logger,
	}
}

// Hub returns the reload hub, for mounting at ReloadPath and for the
// watcher to notify.
func (a *Adapter) Hub() *Hub {
	return a.hub
}

// Transform prepares a freshly read HTML shell for a dev-mode response: it
// rewrites local asset references with a cache-busting version token and
// injects the hot reload client script.
//
// The token is minted per call, matching the per-request template read, so
// rapid iterative reloads never serve a stale cached bundle.
func (a *Adapter) Transform(urlPath, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errors.New("empty template")
	}

	token := freshToken()
	out := assetRef.ReplaceAllString(raw, `${1}="${2}?v=`+token+`"`)

	if a.DisableReload {
		return out, nil
	}
	return injectScript(out, ClientScript), nil
}

// Watch starts a file watcher feeding the reload hub and returns
// immediately. CSS changes trigger a stylesheet-only reload; everything
// else triggers a full page reload.
func (a *Adapter) Watch(ctx context.Context, config WatcherConfig) {
	if a.DisableReload || len(config.Paths) == 0 {
		return
	}
	if config.Logger == nil {
		config.Logger = a.logger
	}

	w := NewWatcher(config)
	w.OnChange(func(c Change) {
		a.logger.Debug("file changed", "path", c.Path)
		if c.Type == ChangeCSS {
			a.hub.NotifyCSS(c.Path)
			return
		}
		a.hub.NotifyReload()
	})

	go func() {
		if err := w.Start(ctx); err != nil {
			a.logger.Error("watcher failed", "error", err)
			a.hub.NotifyError("file watcher failed: " + err.Error())
		}
	}()
}

// Close shuts down the reload hub.
func (a *Adapter) Close() {
	a.hub.Close()
}

// injectScript places the reload client before </body>, falling back to
// </html>, falling back to plain append for fragment-only shells.
func injectScript(html, script string) string {
	if idx := strings.LastIndex(html, "</body>"); idx != -1 {
		return html[:idx] + script + html[idx:]
	}
	if idx := strings.LastIndex(html, "</html>"); idx != -1 {
		return html[:idx] + script + html[idx:]
	}
	return html + script
}

// freshToken returns a random hex token for cache busting.
func freshToken() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
