package config

import "chatserve/internal/protocol"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.

const (
	// DefaultHost binds to every interface.
	DefaultHost = "0.0.0.0"

	// DefaultBacklog queues a single pending peer while a session is
	// active.
	DefaultBacklog = 1

	// DefaultMaxFrameSize is the largest message a single read returns.
	DefaultMaxFrameSize = protocol.MaxFrameSize

	// DefaultHandle is the operator handle used in the prompt.
	DefaultHandle = "serverH"
)
