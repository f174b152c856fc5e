package core

import (
	"sync"
	"sync/atomic"

	"chatserve/internal/console"
	cerrors "chatserve/internal/errors"
	"chatserve/internal/protocol"
	"chatserve/internal/registry"
	"chatserve/internal/session"
	"chatserve/util"
)

// NoticeGoodbye is printed once when the server shuts down.
const NoticeGoodbye = "\nServer shutting down...goodbye."

// Shutdown is the coordinator for an external interrupt.  It is a hard
// teardown: every registered session gets one \quit and is closed,
// without waiting for the peer or for the pump goroutines.
type Shutdown struct {
	Registry *registry.Registry[*session.Session]
	Console  *console.Console
	Logger   *util.Logger

	once     sync.Once
	stopping atomic.Bool

	mu       sync.Mutex
	notified map[*session.Session]bool
}

// Stopping reports whether Shutdown has begun.
func (s *Shutdown) Stopping() bool { return s.stopping.Load() }

// Shutdown sets the stopping flag, tears down every registered session
// and prints the goodbye notice.  Only the first call does anything;
// concurrent callers block until it has finished.  It returns the
// number of sessions that were sent \quit by this call.
func (s *Shutdown) Shutdown() int {
	n := 0
	s.once.Do(func() {
		// The flag goes up before the snapshot: a session registering
		// after this point sees Stopping() and tears itself down.
		s.stopping.Store(true)
		for _, sess := range s.Registry.All() {
			if s.Teardown(sess) {
				n++
			}
		}
		if s.Console != nil {
			s.Console.Notice(NoticeGoodbye)
		}
		s.Logger.Verbose("shutdown: notified %d open session(s)", n)
	})
	return n
}

// Teardown terminates sess, writes \quit to it and closes the stream.
// It reports whether the \quit was written.  A session is torn down at
// most once; later calls report false.
func (s *Shutdown) Teardown(sess *session.Session) bool {
	s.mu.Lock()
	if s.notified == nil {
		s.notified = make(map[*session.Session]bool)
	}
	if s.notified[sess] {
		s.mu.Unlock()
		return false
	}
	s.notified[sess] = true
	s.mu.Unlock()

	sess.Terminate(session.ReasonShutdown)
	_, werr := protocol.WriteFrame(sess.Conn, protocol.Quit)
	if werr != nil && !cerrors.IsClosed(werr) {
		s.Logger.Debug("shutdown: quit to %s: %v", sess.RemoteAddr(), werr)
	}
	if err := sess.Close(); err != nil && !cerrors.IsClosed(err) {
		s.Logger.Debug("shutdown: close %s: %v", sess.RemoteAddr(), err)
	}
	return werr == nil
}
