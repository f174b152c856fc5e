// Package console is the operator side of a chat: a line source for
// outbound messages and a sink for inbound ones.
//
// Input is read by a single background goroutine for the lifetime of
// the process, so a pump loop can stop waiting for a line (by closing
// its done channel) without leaving a blocked read on stdin behind.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/term"

	cerrors "chatserve/internal/errors"
)

// ErrInterrupted is returned by ReadLine when done closes first.
var ErrInterrupted = cerrors.New("console read interrupted")

// Console serialises operator output and hands out input lines.
type Console struct {
	in          io.Reader
	out         io.Writer
	prompt      string
	interactive bool

	mu      sync.Mutex // guards writes to out
	waiting atomic.Bool

	startOnce sync.Once
	lines     chan string

	pmu     sync.Mutex
	pending []string // lines handed back with Unread, newest first
}

// New returns a Console reading lines from in and writing to out.  The
// prompt is only shown when in is a terminal.
func New(in io.Reader, out io.Writer, prompt string) *Console {
	return &Console{
		in:          in,
		out:         out,
		prompt:      prompt,
		interactive: isTerminal(in),
		lines:       make(chan string),
	}
}

// Stdio returns a Console bound to the process's stdin/stdout.
func Stdio(prompt string) *Console {
	return New(os.Stdin, os.Stdout, prompt)
}

// SetInteractive forces prompt display on or off.
func (c *Console) SetInteractive(on bool) { c.interactive = on }

// ReadLine blocks until the operator enters a line or done is closed.
// The trailing newline (and a CR before it) is stripped.  When input
// is exhausted it returns cerrors.ErrConsoleClosed.
//
// Once done is closed ReadLine never consumes a line: one that raced
// with done is kept for the next caller.
func (c *Console) ReadLine(done <-chan struct{}) (string, error) {
	c.startOnce.Do(func() { go c.readLoop() })

	if closed(done) {
		return "", ErrInterrupted
	}
	if line, ok := c.takePending(); ok {
		return line, nil
	}

	c.waiting.Store(true)
	defer c.waiting.Store(false)
	c.showPrompt()

	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", cerrors.ErrConsoleClosed
		}
		if closed(done) {
			c.Unread(line)
			return "", ErrInterrupted
		}
		return line, nil
	case <-done:
		return "", ErrInterrupted
	}
}

// Unread hands line back so the next ReadLine returns it.
func (c *Console) Unread(line string) {
	c.pmu.Lock()
	defer c.pmu.Unlock()
	c.pending = append([]string{line}, c.pending...)
}

func (c *Console) takePending() (string, bool) {
	c.pmu.Lock()
	defer c.pmu.Unlock()
	if len(c.pending) == 0 {
		return "", false
	}
	line := c.pending[0]
	c.pending = c.pending[1:]
	return line, true
}

func closed(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}

// Message prints an inbound chat message preceded by a blank line.  If
// the operator is sitting at the prompt it is shown again afterwards.
func (c *Console) Message(msg string) {
	c.mu.Lock()
	fmt.Fprintf(c.out, "\n%s\n", msg)
	c.mu.Unlock()
	if c.waiting.Load() {
		c.showPrompt()
	}
}

// Notice prints a status line such as a session termination notice.
func (c *Console) Notice(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) showPrompt() {
	if !c.interactive {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\n%s", c.prompt)
}

func (c *Console) readLoop() {
	defer close(c.lines)
	sc := bufio.NewScanner(c.in)
	for sc.Scan() {
		c.lines <- sc.Text()
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
