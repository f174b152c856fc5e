// Package transport owns the listening endpoint.  It binds a TCP
// socket with a caller-chosen accept backlog so that, while one chat
// session is being served, at most that many further peers wait in the
// kernel queue.
package transport

import (
	"context"
	"net"

	cerrors "chatserve/internal/errors"
)

// Listen binds addr ("host:port") over TCP with the given backlog.
// Bind or listen failures are returned as *errors.NetworkError and
// are fatal for the caller.
func Listen(ctx context.Context, addr string, backlog int) (net.Listener, error) {
	if backlog < 1 {
		backlog = 1
	}
	ln, err := listenBacklog(ctx, addr, backlog)
	if err != nil {
		return nil, cerrors.Wrap("listen", addr, err)
	}
	return ln, nil
}
