//go:build !windows

// Package ttystate implements C1: snapshotting the controlling terminal's
// attributes, switching it to raw mode, and restoring it on every exit
// path (spec.md §4.1, invariant I5).
package ttystate

import (
	"script-tty/internal/rerr"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// State is a snapshot of one fd's terminal attributes, taken before the
// child is forked, per spec.md §4.2 ("Open the pty-multiplexer master...
// the signal mask is set to block SIGCHLD around the fork so the parent
// cannot observe a SIGCHLD before it has recorded the child pid" happens
// around this snapshot in the caller).
type State struct {
	fd       int
	orig     unix.Termios
	hasOrig  bool
	isATTY   bool
}

// Snapshot captures fd's current termios, if fd is a tty. A non-tty fd
// (e.g. stdin redirected from a file) yields a State with isATTY=false;
// Raw and Restore on it are no-ops, matching script.c running against a
// non-interactive stdin. term.IsTerminal is consulted first as the cheap
// common-case check before the full termios snapshot.
func Snapshot(fd int) (*State, error) {
	if !term.IsTerminal(fd) {
		return &State{fd: fd}, nil
	}
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return &State{fd: fd}, nil
	}
	return &State{fd: fd, orig: *t, hasOrig: true, isATTY: true}, nil
}

// IsATTY reports whether the snapshotted fd was a terminal.
func (s *State) IsATTY() bool { return s.isATTY }

// Raw clears the input/output/local/control-mode bits spec.md §4.1
// requires and applies them immediately (TCSANOW-equivalent), matching
// fixtty() in script.c.
func (s *State) Raw() error {
	if !s.isATTY {
		return nil
	}
	raw := s.orig
	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(s.fd, unix.TCSETS, &raw); err != nil {
		return rerr.Setup("failed to set raw mode", err)
	}
	return nil
}

// Restore applies the original snapshot back to fd in drain mode: pending
// output is allowed to leave the kernel before the old attributes take
// effect (TCSADRAIN-equivalent, TCSETSW). Per invariant I5 this must
// succeed (or no-op) on every exit path, so callers should tolerate a
// returned error by logging rather than aborting further cleanup.
func (s *State) Restore() error {
	if !s.isATTY || !s.hasOrig {
		return nil
	}
	if err := unix.IoctlSetTermios(s.fd, unix.TCSETSW, &s.orig); err != nil {
		return rerr.RuntimeIO("failed to restore tty attributes", err)
	}
	return nil
}

// ApplyTo copies the pre-raw snapshot onto another fd (TCSANOW-equivalent),
// the way script.c's getslave() copies origtty onto the pty slave so the
// child shell inherits a cooked tty even though the controlling terminal
// itself has since been switched to raw mode.
func (s *State) ApplyTo(fd int) error {
	if !s.isATTY || !s.hasOrig {
		return nil
	}
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &s.orig); err != nil {
		return rerr.Setup("failed to copy tty attributes to slave", err)
	}
	return nil
}

// WinSize queries the current window size of fd via TIOCGWINSZ, used both
// to size a freshly-opened pty (C2) and to answer SIGWINCH (C4).
func WinSize(fd int) (rows, cols uint16, err error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return ws.Row, ws.Col, nil
}
