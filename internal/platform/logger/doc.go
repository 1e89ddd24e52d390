// Package logger builds the process's JSON slog logger and carries
// request-scoped loggers through context.Context. Code that cannot reach a
// request logger falls back to slog.Default.
package logger
