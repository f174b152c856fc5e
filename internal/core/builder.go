package core

import (
	"chatserve/config"
	"chatserve/internal/capability"
	"chatserve/internal/console"
	"chatserve/internal/metrics"
	"chatserve/internal/protocol"
	"chatserve/internal/registry"
	"chatserve/internal/session"
	"chatserve/util"
)

// Build constructs the server from the given configuration.  The
// console is passed in so callers (and tests) decide where operator
// I/O comes from.
func Build(cfg *config.Config, con *console.Console, logger *util.Logger) (*ServeMode, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	collector := metrics.New()
	return &ServeMode{
		Address: cfg.Address(),
		Backlog: cfg.Backlog,
		Gate: &protocol.Gate{
			MaxFrameSize: cfg.MaxFrameSize,
			Timeout:      cfg.HandshakeTimeout,
		},
		Capability: &capability.Chat{
			MaxFrameSize: cfg.MaxFrameSize,
			Metrics:      collector,
		},
		Console:    con,
		Registry:   registry.New[*session.Session](),
		Metrics:    collector,
		Logger:     logger,
		ShowBanner: !cfg.NoBanner,
	}, nil
}
