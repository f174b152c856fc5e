package core

import (
	"context"
	"fmt"
	"net"
	"sync"

	"chatserve/internal/capability"
	"chatserve/internal/console"
	cerrors "chatserve/internal/errors"
	"chatserve/internal/metrics"
	"chatserve/internal/protocol"
	"chatserve/internal/registry"
	"chatserve/internal/session"
	"chatserve/internal/transport"
	"chatserve/util"
)

// Banner lines printed once the endpoint is bound.
var Banner = []string{
	"The server is up.",
	`- enter '\quit' to end session with client`,
	"- ctrl-C to exit server application",
	"Waiting for client connections...",
}

// ServeMode accepts one connection at a time, gates it through the
// handshake and runs the chat capability on it.  Sessions are strictly
// sequential: the next Accept happens only after the current session
// is closed and deregistered.
type ServeMode struct {
	Address    string // "host:port"
	Backlog    int
	Gate       *protocol.Gate
	Capability capability.Capability
	Console    *console.Console
	Registry   *registry.Registry[*session.Session]
	Metrics    *metrics.Collector
	Logger     *util.Logger
	ShowBanner bool

	initOnce sync.Once
	coord    *Shutdown

	mu     sync.Mutex
	ln     net.Listener
	cancel context.CancelFunc
}

func (m *ServeMode) init() {
	m.initOnce.Do(func() {
		if m.Registry == nil {
			m.Registry = registry.New[*session.Session]()
		}
		if m.Gate == nil {
			m.Gate = &protocol.Gate{}
		}
		m.coord = &Shutdown{Registry: m.Registry, Console: m.Console, Logger: m.Logger}
	})
}

// Addr returns the bound address, or nil before Run has listened.
func (m *ServeMode) Addr() net.Addr {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ln == nil {
		return nil
	}
	return m.ln.Addr()
}

// Shutdown runs the shutdown coordinator, cancels the context the
// current connection is served under and stops the accept loop.  It is
// what a cancelled context triggers, exposed so the interrupt path can
// be driven directly.
func (m *ServeMode) Shutdown() {
	m.init()
	m.coord.Shutdown()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
	if m.ln != nil {
		m.ln.Close()
	}
}

// Run binds the endpoint and serves sessions until the context is
// cancelled or Shutdown is called, in which case it returns nil.  Bind
// failures and unexpected Accept failures are returned as errors.
func (m *ServeMode) Run(ctx context.Context) error {
	m.init()

	ln, err := transport.Listen(ctx, m.Address, m.Backlog)
	if err != nil {
		return err
	}
	defer ln.Close()

	// Connections are served under a child context so a direct Shutdown
	// reaches a handshake or session in progress the same way a signal
	// does.
	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	m.mu.Lock()
	m.ln = ln
	m.cancel = cancel
	m.mu.Unlock()

	if m.coord.Stopping() {
		return nil
	}

	m.Logger.Verbose("listening on %s (tcp, backlog %d)", ln.Addr(), m.Backlog)
	if m.ShowBanner {
		for _, line := range Banner {
			m.Console.Notice("%s", line)
		}
	}

	// Shut everything down when the context expires.
	stop := context.AfterFunc(parent, m.Shutdown)
	defer stop()

	defer func() { m.Logger.Debug("stats: %s", m.Metrics.JSON()) }()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if m.coord.Stopping() || ctx.Err() != nil {
				// Wait for the coordinator so the goodbye is out
				// before Run returns.
				m.coord.Shutdown()
				return nil
			}
			return cerrors.Wrap("accept", ln.Addr().String(), err)
		}
		m.serveConn(ctx, conn)
	}
}

// ── Per-connection lifecycle ─────────────────────────────────────────

func (m *ServeMode) serveConn(ctx context.Context, conn net.Conn) {
	peer := conn.RemoteAddr().String()
	m.Logger.Verbose("connection from %s", peer)

	// A peer that never sends its hello would otherwise hold the loop
	// past a shutdown.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	res, first, err := m.Gate.Initiate(conn)
	stopped := stop()
	if err != nil && !cerrors.Is(err, cerrors.ErrHandshakeRejected) {
		m.Logger.Warn("%v", err)
	}
	if res != protocol.Accepted || !stopped {
		m.Metrics.HandshakeRejected()
		if err != nil {
			m.Logger.Verbose("handshake with %s: %v", peer, err)
		} else {
			m.Logger.Verbose("handshake with %s dropped: server stopping", peer)
		}
		conn.Close()
		return
	}
	m.Console.Notice("Initial msg from client: %s", first)

	sess := session.New(conn, m.Console, nil)
	sess.Logger = m.Logger.With(fmt.Sprintf("session %d", sess.ID))

	m.Registry.Register(sess)
	m.Metrics.SessionOpened()
	if m.coord.Stopping() {
		// The broadcast already ran; this session missed it.
		m.coord.Teardown(sess)
	}

	if err := m.Capability.Handle(ctx, sess); err != nil {
		sess.Logger.Warn("%v", err)
	}

	if ctx.Err() != nil || m.coord.Stopping() {
		// Interrupted: make sure the peer got its \quit even if the
		// pumps finished before the coordinator reached this session.
		m.coord.Teardown(sess)
	}
	if err := sess.Close(); err != nil && !cerrors.IsClosed(err) {
		sess.Logger.Debug("close: %v", err)
	}
	m.Registry.Deregister(sess)
	m.Metrics.SessionClosed()
	sess.Logger.Verbose("session with %s ended: %s", peer, sess.Reason())
}
