// Package logging builds the process-wide slog logger.
//
// Output is JSON, leveled through LOG_LEVEL, and handlers attach the
// request ID from the context so their entries correlate with the
// access log.
//
//	logger := logging.NewLogger()
//	logger.Info("server starting", slog.String("version", version))
//
//	// inside a handler
//	logger := logging.WithRequestID(r.Context(), h.Logger)
package logging
