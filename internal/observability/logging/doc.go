// Package logging provides structured logging utilities with context propagation.
//
// It wraps log/slog: loggers are configured from LOG_LEVEL (debug, info,
// warn, error) and LOG_FORMAT (json, text), and request-scoped loggers carry
// the request ID and trace ID of the current request.
//
// Example usage:
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	logging.FromContext(ctx).Info("note created", slog.Int64("id", note.ID))
package logging
