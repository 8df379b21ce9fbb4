package logger

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

// loggerKey is the context key for the logger.
const loggerKey contextKey = "chainmap.logger"

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}
