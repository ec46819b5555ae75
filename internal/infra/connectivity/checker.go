// Package connectivity answers the single question "is the network
// reachable right now" with a cheap dial probe. The answer is fail-closed:
// any failure, including an unreachable probe host or an expired context,
// reads as offline.
package connectivity

import (
	"context"
	"log/slog"
	"net"
	"time"

	"stockitect/pkg/config"
)

// Config holds the probe target and its deadline.
type Config struct {
	// ProbeAddress is the host:port dialed to decide reachability.
	ProbeAddress string

	// Timeout bounds one probe. Probes are on the request path, so this
	// stays well under the transport's own timeout.
	Timeout time.Duration
}

// DefaultConfig returns probe settings suitable for production.
func DefaultConfig() Config {
	return Config{
		ProbeAddress: "api.polygon.io:443",
		Timeout:      2 * time.Second,
	}
}

// LoadConfig reads probe settings from the environment, falling back to
// defaults with a warning on invalid values.
func LoadConfig() Config {
	defaults := DefaultConfig()
	return Config{
		ProbeAddress: config.GetEnvString("CONNECTIVITY_PROBE_ADDRESS", defaults.ProbeAddress),
		Timeout:      config.GetEnvDuration("CONNECTIVITY_PROBE_TIMEOUT", defaults.Timeout),
	}
}

// Checker reports network reachability by dialing a probe address.
type Checker struct {
	cfg    Config
	dialer *net.Dialer
	logger *slog.Logger
}

// NewChecker creates a checker for the configured probe address.
func NewChecker(cfg Config, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		cfg:    cfg,
		dialer: &net.Dialer{},
		logger: logger,
	}
}

// IsOnline dials the probe address once. It never returns an error:
// unknown connectivity reads as offline so callers do not attempt
// requests that cannot be distinguished from doomed ones.
func (c *Checker) IsOnline(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	conn, err := c.dialer.DialContext(ctx, "tcp", c.cfg.ProbeAddress)
	if err != nil {
		c.logger.Debug("connectivity probe failed",
			slog.String("address", c.cfg.ProbeAddress),
			slog.String("error", err.Error()))
		return false
	}
	_ = conn.Close()
	return true
}

// Always reports a fixed answer; used where a connectivity check is not
// wanted, such as one-shot tooling.
type Always bool

// IsOnline implements the repository's connectivity collaborator.
func (a Always) IsOnline(context.Context) bool { return bool(a) }
