// Package capability defines what happens over an established,
// handshaken connection.  A Capability operates on a Session rather
// than a raw net.Conn, which keeps it testable and decoupled from how
// the stream was accepted.
package capability

import (
	"context"

	"chatserve/internal/session"
)

// Capability handles a single session.  Handle blocks until the session
// is over or the context is cancelled.
type Capability interface {
	Handle(ctx context.Context, sess *session.Session) error
}
