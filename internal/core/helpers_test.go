package core

import (
	"bytes"
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chatserve/config"
	"chatserve/internal/console"
	"chatserve/internal/protocol"
	"chatserve/util"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testServer struct {
	mode     *ServeMode
	out      *syncBuffer
	operator *io.PipeWriter
	cancel   context.CancelFunc
	runErr   chan error
}

// startServer runs a ServeMode on a free loopback port with the
// operator console driven through ts.operator.
func startServer(t *testing.T) *testServer {
	t.Helper()
	port, err := util.FindFreePort()
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = port

	pr, pw := io.Pipe()
	out := &syncBuffer{}
	mode, err := Build(cfg, console.New(pr, out, cfg.Prompt()), util.NewLogger(0))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ts := &testServer{mode: mode, out: out, operator: pw, cancel: cancel, runErr: make(chan error, 1)}
	go func() { ts.runErr <- mode.Run(ctx) }()

	require.Eventually(t, func() bool { return mode.Addr() != nil },
		2*time.Second, 5*time.Millisecond, "server did not start listening")

	t.Cleanup(func() {
		cancel()
		pw.Close()
	})
	return ts
}

func (ts *testServer) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-ts.runErr:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down in time")
		return nil
	}
}

func (ts *testServer) dial(t *testing.T) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", ts.mode.Addr().String(), 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// connect dials and completes the handshake.
func (ts *testServer) connect(t *testing.T) net.Conn {
	t.Helper()
	conn := ts.dial(t)
	send(t, conn, protocol.ClientHello)
	require.Equal(t, protocol.ServerHello, recv(t, conn))
	return conn
}

func send(t *testing.T, conn net.Conn, msg string) {
	t.Helper()
	_, err := conn.Write([]byte(msg))
	require.NoError(t, err)
}

func recv(t *testing.T, conn net.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	buf := make([]byte, protocol.MaxFrameSize)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	return string(buf[:n])
}

// drain reads until the server closes the connection.
func drain(t *testing.T, conn net.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	data, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(data)
}
