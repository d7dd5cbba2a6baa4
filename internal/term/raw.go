// Package term puts the controlling terminal into raw mode and decodes key
// presses from it.
package term

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"
)

const (
	enterSeq = "\x1b[?1049h\x1b[2J\x1b[H"
	leaveSeq = "\x1b[?1049l\x1b[?25h"
)

// Raw holds the terminal state to restore when the editor exits.
type Raw struct {
	fd   int
	out  io.Writer
	orig unix.Termios
	on   bool
}

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool { return xterm.IsTerminal(fd) }

// Enable switches fd to raw mode and moves out to the alternate screen.
// Reads return after at most 100ms so pending resizes are noticed.
func Enable(fd int, out io.Writer) (*Raw, error) {
	t, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("get termios: %w", err)
	}
	r := &Raw{fd: fd, out: out, orig: *t}
	raw := *t
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 1
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &raw); err != nil {
		return nil, fmt.Errorf("set termios: %w", err)
	}
	r.on = true
	_, _ = io.WriteString(out, enterSeq)
	return r, nil
}

// Restore puts the terminal back the way Enable found it. It is safe to call
// more than once.
func (r *Raw) Restore() error {
	if r == nil || !r.on {
		return nil
	}
	r.on = false
	_, _ = io.WriteString(r.out, leaveSeq)
	return unix.IoctlSetTermios(r.fd, ioctlSetTermios, &r.orig)
}

// Size returns the window size of fd, or 24x80 when it cannot be read.
func Size(fd int) (rows, cols int) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err == nil && ws.Col > 0 && ws.Row > 0 {
		return int(ws.Row), int(ws.Col)
	}
	return 24, 80
}

// NotifyResize sets the returned flag on every SIGWINCH until stop is called.
func NotifyResize() (pending *atomic.Bool, stop func()) {
	pending = new(atomic.Bool)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGWINCH)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-sig:
				pending.Store(true)
			case <-done:
				return
			}
		}
	}()
	return pending, func() {
		signal.Stop(sig)
		close(done)
	}
}
