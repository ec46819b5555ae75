package logging

import (
	"context"
	"log/slog"
	"os"

	"stockitect/internal/handler/http/requestid"
)

// NewLogger creates the process-wide structured logger: JSON output,
// level from LOG_LEVEL ("debug" enables debug, anything else means
// info), source locations attached when warnings are visible.
func NewLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: logLevel <= slog.LevelWarn,
	})
	return slog.New(handler)
}

// WithRequestID returns logger extended with the request ID carried in
// ctx, so every entry a handler emits correlates with the middleware's
// access log. Without an ID the logger is returned unchanged.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		return logger
	}
	return logger.With("request_id", reqID)
}
