// Package middleware provides HTTP middleware for Lumen applications:
// Prometheus request metrics and OpenTelemetry tracing.
//
// Both middlewares wrap any http.Handler and are installed automatically by
// the Lumen app pipeline; they can also be used standalone:
//
//	handler := middleware.Prometheus()(middleware.OpenTelemetry()(mux))
package middleware
