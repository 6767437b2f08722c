// Package dev implements the development-mode half of the asset pipeline:
// live template transformation (reload client injection plus cache-busting
// asset references), a WebSocket hub that pushes reload and build-error
// messages to connected browsers, and an fsnotify-based file watcher that
// feeds the hub.
//
// Nothing in this package runs in production mode; the production adapter
// is plain static file serving with cache headers.
package dev
