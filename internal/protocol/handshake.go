package protocol

import (
	"fmt"
	"net"
	"time"

	cerrors "chatserve/internal/errors"
	"chatserve/util"
)

// Result is the outcome of the handshake gate.
type Result int

const (
	Rejected Result = iota
	Accepted
)

func (r Result) String() string {
	if r == Accepted {
		return "accepted"
	}
	return "rejected"
}

// Gate validates a freshly accepted stream before any chat traffic.
type Gate struct {
	MaxFrameSize int           // defaults to MaxFrameSize
	Timeout      time.Duration // 0 waits forever
}

// Initiate reads exactly one frame from conn.  If it equals ClientHello
// the ServerHello token is written once and Accepted is returned.  Any
// other frame, an empty read, or a timeout is Rejected with nothing
// written; closing a rejected stream is the caller's job.
//
// A Rejected result always comes with an error.  It wraps
// ErrHandshakeRejected when the peer simply failed the exchange, and is
// a *NetworkError when the read or the acknowledgement write failed.
// The received frame is returned for diagnostics.
func (g *Gate) Initiate(conn net.Conn) (Result, string, error) {
	size := g.MaxFrameSize
	if size <= 0 {
		size = MaxFrameSize
	}

	if g.Timeout > 0 {
		conn.SetReadDeadline(time.Now().Add(g.Timeout)) //nolint:errcheck
		defer conn.SetReadDeadline(time.Time{})         //nolint:errcheck
	}

	buf := util.GetBuf(size)
	defer util.PutBuf(buf)
	msg, err := ReadFrame(conn, *buf)
	if err != nil {
		if cerrors.IsClosed(err) {
			return Rejected, "", fmt.Errorf("%w: %v", cerrors.ErrHandshakeRejected, err)
		}
		return Rejected, "", cerrors.Wrap("handshake", conn.RemoteAddr().String(), err)
	}
	if msg != ClientHello {
		return Rejected, msg, fmt.Errorf("%w: unexpected first message %q", cerrors.ErrHandshakeRejected, msg)
	}

	if _, err := WriteFrame(conn, ServerHello); err != nil {
		return Rejected, msg, cerrors.Wrap("handshake", conn.RemoteAddr().String(), err)
	}
	return Accepted, msg, nil
}
