package session

import (
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatserve/internal/console"
	"chatserve/util"
)

func newTestSession(t *testing.T) (*Session, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() { client.Close() })
	con := console.New(strings.NewReader(""), nil, "> ")
	return New(server, con, util.NewLogger(0)), client
}

func TestSession_Lifecycle(t *testing.T) {
	s, _ := newTestSession(t)
	assert.Equal(t, Handshaking, s.State())
	assert.False(t, s.Terminated())
	assert.Equal(t, ReasonNone, s.Reason())

	s.Activate()
	assert.Equal(t, Active, s.State())

	assert.True(t, s.Terminate(ReasonClientQuit))
	assert.Equal(t, Terminating, s.State())

	require.NoError(t, s.Close())
	assert.Equal(t, Closed, s.State())
}

func TestSession_TerminateIsMonotonic(t *testing.T) {
	s, _ := newTestSession(t)

	assert.True(t, s.Terminate(ReasonServerQuit))
	assert.False(t, s.Terminate(ReasonClientQuit), "second Terminate loses")
	assert.True(t, s.Terminated())
	assert.Equal(t, ReasonServerQuit, s.Reason(), "first reason is kept")

	select {
	case <-s.Done():
	default:
		t.Fatal("Done should be closed after Terminate")
	}

	// Activate cannot resurrect a terminating session.
	s.Activate()
	assert.Equal(t, Terminating, s.State())
}

func TestSession_ConcurrentTerminate(t *testing.T) {
	s, _ := newTestSession(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Terminate(ReasonDisconnect) {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}

func TestSession_FreshFlagPerSession(t *testing.T) {
	a, _ := newTestSession(t)
	a.Terminate(ReasonClientQuit)

	b, _ := newTestSession(t)
	assert.False(t, b.Terminated())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSession_CloseTwice(t *testing.T) {
	s, client := newTestSession(t)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, s.Terminated())

	_, err := client.Read(make([]byte, 1))
	assert.Error(t, err, "peer sees the close")
}

func TestStateAndReasonStrings(t *testing.T) {
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "client quit", ReasonClientQuit.String())
	assert.Equal(t, "client disconnected", ReasonDisconnect.String())
	assert.Equal(t, "server shutdown", ReasonShutdown.String())
}
