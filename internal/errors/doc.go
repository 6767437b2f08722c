// Package errors provides structured, coded errors for Lumen.
//
// Every fatal condition has a stable code (e.g., "E121" for a missing
// production asset directory) so startup failures stay greppable across
// releases, plus an optional detail and fix suggestion for terminal output.
package errors
