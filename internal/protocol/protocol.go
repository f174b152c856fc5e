// Package protocol holds the chat wire format.
//
// There is no length prefix or delimiter: one Read call on the stream is
// one message, bounded by the frame size.  Messages are ASCII text.
package protocol

import (
	"io"
)

// Wire literals.
const (
	ClientHello = "CXN_C" // first message a client must send
	ServerHello = "CXN_S" // server acknowledgement of ClientHello
	Quit        = `\quit` // ends the session for both sides

	// EmptyPlaceholder replaces an empty operator line: a zero-length
	// write would be indistinguishable from nothing at all.
	EmptyPlaceholder = "  "

	// MaxFrameSize bounds a single message.
	MaxFrameSize = 500
)

// ReadFrame performs one read of at most len(buf) bytes and returns what
// arrived.  A peer that closed the stream yields ("", io.EOF).
func ReadFrame(r io.Reader, buf []byte) (string, error) {
	n, err := r.Read(buf)
	if n > 0 {
		// A short read with a trailing error still delivers the bytes;
		// the error will surface again on the next call.
		return string(buf[:n]), nil
	}
	if err == nil {
		err = io.EOF
	}
	return "", err
}

// WriteFrame writes msg as a single message.  Empty messages are not
// representable on the wire and are replaced with EmptyPlaceholder.
func WriteFrame(w io.Writer, msg string) (int, error) {
	if msg == "" {
		msg = EmptyPlaceholder
	}
	return io.WriteString(w, msg)
}
