// Package config reads typed configuration values from the environment.
// Parse failures never abort startup: the caller's default wins and a
// warning is logged, so a mistyped variable degrades to known behavior.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// GetEnvString returns the environment variable value, or defaultValue
// when the variable is unset or empty.
func GetEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvInt parses the environment variable as an integer. Unset, empty,
// or unparseable values fall back to defaultValue with a warning.
func GetEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid integer in environment, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Int("default", defaultValue))
		return defaultValue
	}
	return v
}

// GetEnvBool parses the environment variable as a boolean, accepting the
// forms strconv.ParseBool does ("1", "t", "true", "0", "false", ...).
// Unset or unparseable values fall back to defaultValue with a warning.
func GetEnvBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Bool("default", defaultValue))
		return defaultValue
	}
	return v
}

// GetEnvDuration parses the environment variable with time.ParseDuration
// ("90s", "5m", "1h30m"). Unset or unparseable values fall back to
// defaultValue with a warning.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("invalid duration in environment, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.String("default", defaultValue.String()))
		return defaultValue
	}
	return v
}
