// Package logger provides structured logging for chainmap tools.
//
// It wraps log/slog:
//
//   - logger.go: configuration, level handling and the Logger interface
//   - context.go: logger propagation through context.Context
//
// Output defaults to JSON on stderr; a text format is available for
// interactive use.
package logger
