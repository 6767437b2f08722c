package dev

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	ChangeAsset ChangeType = iota
	ChangeCSS
	ChangeTemplate
)

// Change represents a detected file change.
type Change struct {
	Path string
	Type ChangeType
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the directories to watch.
	Paths []string

	// Ignore patterns to skip (matched against base names).
	Ignore []string

	// Debounce is the quiet period before a change is reported.
	// Default: 100ms.
	Debounce time.Duration

	// Logger receives watch errors. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"dist",
	"tmp",
	"*.tmp",
	"*.swp",
	".DS_Store",
}

// Watcher watches directories for changes and reports them debounced, so
// editor save bursts collapse into a single reload.
type Watcher struct {
	config   WatcherConfig
	logger   *slog.Logger
	onChange func(Change)

	mu      sync.Mutex
	pending map[string]ChangeType
	timer   *time.Timer
}

// NewWatcher creates a file watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Debounce == 0 {
		config.Debounce = 100 * time.Millisecond
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		config:  config,
		logger:  logger,
		pending: make(map[string]ChangeType),
	}
}

// OnChange sets the callback invoked for each debounced change.
// Must be called before Start.
func (w *Watcher) OnChange(fn func(Change)) {
	w.onChange = fn
}

// Start watches until the context is cancelled. It blocks.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	for _, root := range w.config.Paths {
		if err := w.addRecursive(fsw, root); err != nil {
			w.logger.Warn("watch path skipped", "path", root, "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) {
	if w.ignored(event.Name) {
		return
	}

	// Newly created directories must be added to the watch set.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(fsw, event.Name); err != nil {
				w.logger.Warn("watch add failed", "path", event.Name, "error", err)
			}
			return
		}
	}

	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = Classify(event.Name)
	if w.timer == nil {
		w.timer = time.AfterFunc(w.config.Debounce, w.flush)
	} else {
		w.timer.Reset(w.config.Debounce)
	}
	w.mu.Unlock()
}

// flush reports all coalesced changes.
func (w *Watcher) flush() {
	w.mu.Lock()
	pending := w.pending
	w.pending = make(map[string]ChangeType)
	w.timer = nil
	fn := w.onChange
	w.mu.Unlock()

	if fn == nil {
		return
	}
	for path, typ := range pending {
		fn(Change{Path: path, Type: typ})
	}
}

// addRecursive adds a directory tree to the watch set.
func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

// ignored reports whether a path matches the ignore patterns.
func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range append(DefaultIgnore, w.config.Ignore...) {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		// Directory-name patterns also match anywhere in the path.
		if !strings.ContainsAny(pattern, "*?[") &&
			strings.Contains(path, string(filepath.Separator)+pattern+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Classify maps a changed file to the reload behavior it needs.
func Classify(path string) ChangeType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css":
		return ChangeCSS
	case ".html", ".htm", ".tmpl":
		return ChangeTemplate
	default:
		return ChangeAsset
	}
}
