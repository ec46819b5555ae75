// Package config loads validated worker configuration from the
// environment. Loading is fail-open: a bad value never stops startup,
// it falls back to the default and surfaces a warning so the caller can
// log and count it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ConfigLoadResult carries one loaded value plus the fallback audit
// trail. Value holds the concrete type the loader produced.
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

// LoadEnvString returns the environment value or the default when unset.
// No validation; use LoadEnvWithFallback when the value must be checked.
func LoadEnvString(envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}

// LoadEnvWithFallback loads a string and validates it with the given
// function. An unset variable silently uses the default; a value that
// fails validation uses the default and records a warning.
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return ConfigLoadResult{Value: defaultValue}
	}
	if validator != nil {
		if err := validator(value); err != nil {
			return fallbackResult(envKey, value, defaultValue, err)
		}
	}
	return ConfigLoadResult{Value: value}
}

// LoadEnvDuration loads a time.Duration. Both a parse failure and a
// validator rejection fall back to the default with a warning.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return ConfigLoadResult{Value: defaultValue}
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallbackResult(envKey, raw, defaultValue, err)
	}
	if validator != nil {
		if err := validator(value); err != nil {
			return fallbackResult(envKey, raw, defaultValue, err)
		}
	}
	return ConfigLoadResult{Value: value}
}

// LoadEnvInt loads an integer with the same fallback behavior as
// LoadEnvDuration.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return ConfigLoadResult{Value: defaultValue}
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallbackResult(envKey, raw, defaultValue, err)
	}
	if validator != nil {
		if err := validator(value); err != nil {
			return fallbackResult(envKey, raw, defaultValue, err)
		}
	}
	return ConfigLoadResult{Value: value}
}

func fallbackResult(envKey, raw string, defaultValue interface{}, err error) ConfigLoadResult {
	warning := fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'",
		envKey, raw, err, defaultValue)
	return ConfigLoadResult{
		Value:           defaultValue,
		Warnings:        []string{warning},
		FallbackApplied: true,
	}
}
