package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ValidateCronSchedule checks a five-field cron expression with the same
// parser the worker scheduler uses, so anything accepted here will run.
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// ValidateTimezone checks an IANA timezone name by loading it. Fails for
// typos and for valid names when the host lacks tzdata.
func ValidateTimezone(timezone string) error {
	if timezone == "" {
		return fmt.Errorf("invalid timezone: cannot be empty")
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", timezone, err)
	}
	return nil
}

// ValidateDuration checks that a duration is within [min, max] inclusive.
func ValidateDuration(duration, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", min, max)
	}
	if duration < min {
		return fmt.Errorf("duration %v is below minimum %v", duration, min)
	}
	if duration > max {
		return fmt.Errorf("duration %v exceeds maximum %v", duration, max)
	}
	return nil
}

// ValidateIntRange checks that a value is within [min, max] inclusive.
func ValidateIntRange(value, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%d) cannot be greater than max (%d)", min, max)
	}
	if value < min {
		return fmt.Errorf("value %d is below minimum %d", value, min)
	}
	if value > max {
		return fmt.Errorf("value %d exceeds maximum %d", value, max)
	}
	return nil
}

// ValidatePositiveDuration checks that a duration is strictly positive.
func ValidatePositiveDuration(duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", duration)
	}
	return nil
}
