// Package session represents a single chat connection lifecycle,
// binding the network stream to the operator console and to the
// per-session termination flag shared by both message pumps.
//
// A Session is allocated fresh for every accepted connection and is
// never reused, so the termination flag of one session can never leak
// into the next.
package session

import (
	"net"
	"sync"
	"sync/atomic"

	"chatserve/internal/console"
	"chatserve/util"
)

// State is the position of a session in its lifecycle.
type State int32

const (
	Handshaking State = iota
	Active
	Terminating
	Closed
)

func (s State) String() string {
	switch s {
	case Handshaking:
		return "handshaking"
	case Active:
		return "active"
	case Terminating:
		return "terminating"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Reason records which side ended the session.
type Reason int32

const (
	ReasonNone Reason = iota
	ReasonClientQuit
	ReasonServerQuit
	ReasonDisconnect
	ReasonShutdown
	ReasonError
)

func (r Reason) String() string {
	switch r {
	case ReasonClientQuit:
		return "client quit"
	case ReasonServerQuit:
		return "server quit"
	case ReasonDisconnect:
		return "client disconnected"
	case ReasonShutdown:
		return "server shutdown"
	case ReasonError:
		return "i/o error"
	default:
		return "none"
	}
}

var nextID atomic.Uint64

// Session encapsulates the runtime context for a single connection.
type Session struct {
	ID      uint64
	Conn    net.Conn
	Console *console.Console
	Logger  *util.Logger

	state      atomic.Int32
	terminated atomic.Bool
	reason     atomic.Int32
	done       chan struct{}
	closeOnce  sync.Once
	closeErr   error
}

// New creates a Session in the Handshaking state.
func New(conn net.Conn, con *console.Console, logger *util.Logger) *Session {
	return &Session{
		ID:      nextID.Add(1),
		Conn:    conn,
		Console: con,
		Logger:  logger,
		done:    make(chan struct{}),
	}
}

// RemoteAddr returns the peer address as a string.
func (s *Session) RemoteAddr() string {
	if s.Conn == nil || s.Conn.RemoteAddr() == nil {
		return ""
	}
	return s.Conn.RemoteAddr().String()
}

// State returns the current lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

// Activate moves a handshaken session into Active.  It has no effect
// once the session has started terminating.
func (s *Session) Activate() {
	s.state.CompareAndSwap(int32(Handshaking), int32(Active))
}

// Terminate sets the termination flag.  The flag only ever moves from
// false to true; concurrent callers race harmlessly and exactly one of
// them gets true back.  The first caller's reason is kept.
func (s *Session) Terminate(r Reason) bool {
	if !s.terminated.CompareAndSwap(false, true) {
		return false
	}
	s.reason.Store(int32(r))
	s.state.Store(int32(Terminating))
	close(s.done)
	return true
}

// Terminated reports whether the termination flag is set.
func (s *Session) Terminated() bool { return s.terminated.Load() }

// Done is closed when the termination flag is set.
func (s *Session) Done() <-chan struct{} { return s.done }

// Reason returns why the session ended, or ReasonNone while it runs.
func (s *Session) Reason() Reason { return Reason(s.reason.Load()) }

// Close terminates the session (if not already) and closes the
// stream.  Safe to call more than once and from several goroutines.
func (s *Session) Close() error {
	s.Terminate(ReasonNone)
	s.closeOnce.Do(func() {
		s.closeErr = s.Conn.Close()
		s.state.Store(int32(Closed))
	})
	return s.closeErr
}
