// Package config defines the runtime configuration for chatserve and
// provides helpers for parsing and validating it.
package config

import (
	"strconv"
	"time"

	cerrors "chatserve/internal/errors"
	"chatserve/internal/protocol"
	"chatserve/util"
)

// Config holds every tuneable for a chatserve process.
type Config struct {
	// ── Listening endpoint ───────────────────────────────────────────
	Host    string // bind address, "0.0.0.0" accepts from any interface
	Port    int    // required positional argument
	Backlog int    // pending connections queued by the kernel

	// ── Protocol ─────────────────────────────────────────────────────
	MaxFrameSize     int           // upper bound of a single read
	HandshakeTimeout time.Duration // 0 waits for CXN_C forever

	// ── Console ──────────────────────────────────────────────────────
	Handle   string // operator handle shown in the prompt
	NoBanner bool

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
}

// Default returns a Config populated from defaults.go.
func Default() *Config {
	return &Config{
		Host:         DefaultHost,
		Backlog:      DefaultBacklog,
		MaxFrameSize: DefaultMaxFrameSize,
		Handle:       DefaultHandle,
	}
}

// Address returns the host:port the server binds to.
func (c *Config) Address() string {
	return util.FormatAddr(c.Host, c.Port)
}

// Prompt returns the operator prompt, e.g. "serverH> ".
func (c *Config) Prompt() string {
	return c.Handle + "> "
}

// ── Port helpers ─────────────────────────────────────────────────────

// ParsePort accepts a decimal TCP port in the range 1-65535.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, &cerrors.ConfigError{
			Field:   "port",
			Value:   s,
			Message: "not a number",
			Hint:    "pass the port to listen on, e.g. chatserve 30020",
		}
	}
	if port < 1 || port > 65535 {
		return 0, &cerrors.ConfigError{
			Field:   "port",
			Value:   port,
			Message: "out of range 1-65535",
			Hint:    "use a port between 1 and 65535",
		}
	}
	return port, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Port == 0 {
		return &cerrors.ConfigError{
			Field:   "port",
			Message: "required",
			Hint:    "usage: chatserve [options] <port>",
		}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &cerrors.ConfigError{
			Field:   "port",
			Value:   c.Port,
			Message: "out of range 1-65535",
		}
	}
	if c.Backlog < 1 {
		return &cerrors.ConfigError{
			Field:   "backlog",
			Value:   c.Backlog,
			Message: "must be at least 1",
		}
	}
	if c.MaxFrameSize < len(protocol.ClientHello) {
		return &cerrors.ConfigError{
			Field:   "max-frame",
			Value:   c.MaxFrameSize,
			Message: "too small to hold the handshake token",
			Hint:    "the protocol default is 500 bytes",
		}
	}
	if c.HandshakeTimeout < 0 {
		return &cerrors.ConfigError{
			Field:   "handshake-timeout",
			Value:   c.HandshakeTimeout,
			Message: "must not be negative",
		}
	}
	if c.Handle == "" {
		return &cerrors.ConfigError{
			Field:   "handle",
			Message: "must not be empty",
		}
	}
	return nil
}
