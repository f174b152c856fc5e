//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package transport

import (
	"context"
	"net"
)

// listenBacklog falls back to the standard listener; the backlog is
// left at the system default on these platforms.
func listenBacklog(ctx context.Context, addr string, _ int) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", addr)
}
