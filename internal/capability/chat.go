package capability

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"chatserve/internal/console"
	cerrors "chatserve/internal/errors"
	"chatserve/internal/metrics"
	"chatserve/internal/protocol"
	"chatserve/internal/session"
	"chatserve/util"
)

// Console notices shown to the operator.
const (
	NoticeClientQuit = "Client session terminated by client"
	NoticeServerQuit = "Client session terminated by server"
	NoticeDisconnect = "Client disconnected"
)

// Chat is the duplex message pump: an inbound loop draining the stream
// into the console and an outbound loop draining operator lines into
// the stream.  Either loop ends the session for both by setting the
// session's termination flag.
type Chat struct {
	MaxFrameSize int // defaults to protocol.MaxFrameSize
	Metrics      *metrics.Collector
}

// Handle runs both loops and returns once both have stopped.
func (c *Chat) Handle(ctx context.Context, sess *session.Session) error {
	sess.Activate()

	stop := context.AfterFunc(ctx, func() {
		sess.Terminate(session.ReasonShutdown)
	})
	defer stop()

	// The flag is only checked at the top of each loop, and a Read that
	// is already blocked cannot be cancelled.  Pulling the read deadline
	// in to now makes that Read return; writes are unaffected, so a
	// final \quit still goes out.
	go func() {
		<-sess.Done()
		sess.Conn.SetReadDeadline(time.Now()) //nolint:errcheck
	}()

	var g errgroup.Group
	g.Go(func() error { return c.inbound(sess) })
	g.Go(func() error { return c.outbound(sess) })
	err := g.Wait()

	sess.Terminate(session.ReasonNone)
	return err
}

// inbound reads frames until \quit, disconnect, or termination.
func (c *Chat) inbound(sess *session.Session) error {
	size := c.MaxFrameSize
	if size <= 0 {
		size = protocol.MaxFrameSize
	}
	buf := util.GetBuf(size)
	defer util.PutBuf(buf)

	for !sess.Terminated() {
		msg, err := protocol.ReadFrame(sess.Conn, *buf)
		if err != nil {
			switch {
			case sess.Terminated():
				// Unblocked by our own deadline or close.
				return nil
			case cerrors.IsClosed(err):
				if sess.Terminate(session.ReasonDisconnect) {
					sess.Console.Notice(NoticeDisconnect)
				}
				return nil
			default:
				sess.Terminate(session.ReasonError)
				c.Metrics.RecordError(err.Error())
				return cerrors.Wrap("read", sess.RemoteAddr(), err)
			}
		}
		if sess.Terminated() {
			return nil
		}
		c.Metrics.MessageReceived(len(msg))

		if msg == protocol.Quit {
			if sess.Terminate(session.ReasonClientQuit) {
				sess.Console.Notice(NoticeClientQuit)
			}
			return nil
		}
		sess.Console.Message(msg)
	}
	return nil
}

// outbound sends operator lines until \quit or termination.
func (c *Chat) outbound(sess *session.Session) error {
	for !sess.Terminated() {
		line, err := sess.Console.ReadLine(sess.Done())
		switch {
		case cerrors.Is(err, console.ErrInterrupted):
			return nil
		case err != nil:
			// Operator input is gone; nobody can type \quit anymore.
			sess.Logger.Verbose("console: %v", err)
			line = protocol.Quit
		}
		if sess.Terminated() {
			if err == nil {
				// Too late for this session; the next one gets it.
				sess.Console.Unread(line)
			}
			return nil
		}

		if line == protocol.Quit {
			if !sess.Terminate(session.ReasonServerQuit) {
				return nil
			}
			sess.Console.Notice(NoticeServerQuit)
			return c.send(sess, protocol.Quit)
		}
		if err := c.send(sess, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chat) send(sess *session.Session, msg string) error {
	n, err := protocol.WriteFrame(sess.Conn, msg)
	if err != nil {
		if cerrors.IsClosed(err) && sess.Terminated() {
			return nil
		}
		sess.Terminate(session.ReasonError)
		c.Metrics.RecordError(err.Error())
		return cerrors.Wrap("write", sess.RemoteAddr(), err)
	}
	c.Metrics.MessageSent(n)
	return nil
}
