//go:build !windows

// Package recorder implements C5 (the recorder event loop) and C6 (the
// typescript writer) from spec.md §4.4 and §4.6: a single-threaded,
// cooperative, non-blocking multiplexer over five (plus one internal
// wakeup) file descriptors.
package recorder

import (
	"errors"
	"io"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"script-tty/internal/rerr"
	"script-tty/internal/sigbridge"
	"script-tty/internal/ttystate"
)

const readChunk = 8192

// Loop is the recorder event loop's runtime state (spec.md §3, "Recorder
// runtime state").
type Loop struct {
	stdinFd  int
	stdoutFd int
	ptyFd    int

	stdinOpen    bool
	stdoutOpen   bool
	ptyReadOpen  bool
	ptyWriteOpen bool
	journalOpen  bool
	ptyFdClosed  bool

	fatal    bool
	fatalErr error

	ptyOutBuf  *ring // stdin → pty
	stdoutBuf  *ring // pty → real stdout
	journalBuf *ring // pty → typescript (superset, with markers)

	lastEmitTime time.Time

	journal        *Journal
	bridge         *sigbridge.Bridge
	ttyState       *ttystate.State
	restoreOnce    sync.Once
	restoreErr     error
	footerEnqueued bool

	// TimeFunc is overridable for tests; defaults to time.Now.
	TimeFunc func() time.Time

	// Tap, if set, receives every byte read from the pty before it is
	// buffered — used by the optional live viewer / notifier (SPEC_FULL
	// §3.2–§3.3) without those features touching the core buffers.
	Tap func([]byte)

	// TimingOut, if non-nil, receives one "sec.usec nbytes" line (script
	// -t's legacy sidecar format) per pty read, independent of the inline
	// journal markers.
	TimingOut io.Writer

	// OnResize, if set, is called whenever a SIGWINCH-driven resize is
	// observed, so a Tap consumer (e.g. the notifier's screen emulator)
	// can keep its virtual terminal dimensions in step.
	OnResize func(rows, cols uint16)
}

// NewLoop wires up C5's runtime state around an already-provisioned pty,
// journal, and signal bridge.
func NewLoop(stdinFd, stdoutFd, ptyFd int, journal *Journal, bridge *sigbridge.Bridge, tty *ttystate.State) *Loop {
	return &Loop{
		stdinFd:      stdinFd,
		stdoutFd:     stdoutFd,
		ptyFd:        ptyFd,
		stdinOpen:    true,
		stdoutOpen:   true,
		ptyReadOpen:  true,
		ptyWriteOpen: true,
		journalOpen:  true,
		ptyOutBuf:    newRing(bufCap),
		stdoutBuf:    newRing(bufCap),
		journalBuf:   newRing(bufCap),
		lastEmitTime: time.Now(),
		journal:      journal,
		bridge:       bridge,
		ttyState:     tty,
		TimeFunc:     time.Now,
	}
}

// Run drives the loop to quiescence (spec.md §4.4's termination
// condition), returning a *rerr.Error on fatal I/O errors and nil on
// orderly shutdown. The tty is always restored before returning, per
// invariant I5.
func (l *Loop) Run() error {
	var loopErr error
loop:
	for {
		if l.quiescent() {
			break
		}

		rset := l.buildReadSet()
		wset := l.buildWriteSet()

		n := l.maxFd(rset, wset) + 1
		nReady, err := unix.Select(n, rset, wset, nil, nil)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			loopErr = rerr.RuntimeIO("select failed", err)
			break
		}
		if nReady == 0 {
			continue
		}

		// 1. Write to pty if ready.
		if wset != nil && fdIsSet(wset, l.ptyFd) {
			l.writePty()
		}
		// 2. Write to stdout if ready.
		if wset != nil && fdIsSet(wset, l.stdoutFd) {
			l.writeStdout()
		}
		// 3. Write to journal if ready.
		if wset != nil && l.journalOpen && fdIsSet(wset, l.journal.Fd()) {
			l.writeJournal()
		}
		// 4. Read resize_read_fd if ready.
		if rset != nil && fdIsSet(rset, l.bridge.ResizeReadFd()) {
			l.readResize()
		}
		// 5. Read pty_fd if ready.
		if rset != nil && fdIsSet(rset, l.ptyFd) {
			l.readPty()
		}
		// 6. Read stdin_fd if ready.
		if rset != nil && fdIsSet(rset, l.stdinFd) {
			l.readStdin()
		}
		// Drain the wake pipe, if armed, so it doesn't spuriously
		// re-signal readiness next iteration.
		if rset != nil && fdIsSet(rset, l.bridge.WakeReadFd()) {
			var b [64]byte
			_, _ = unix.Read(l.bridge.WakeReadFd(), b[:])
		}

		// 7. Run the shutdown cascade until it makes no more transitions.
		l.runCascade()

		if l.fatal {
			loopErr = l.fatalErr
			break loop
		}
	}

	// Invariant I5: restore the tty on every exit path.
	l.restore()

	return loopErr
}

func (l *Loop) quiescent() bool {
	return !l.stdinOpen &&
		(!l.ptyWriteOpen || l.ptyOutBuf.Empty()) &&
		!l.ptyReadOpen &&
		!l.stdoutOpen &&
		!l.journalOpen
}

func (l *Loop) restore() {
	l.restoreOnce.Do(func() {
		if l.ttyState != nil {
			l.restoreErr = l.ttyState.Restore()
		}
	})
}

// ChildResult exposes the reaped wait status once available.
func (l *Loop) ChildResult() *sigbridge.ChildResult { return l.bridge.Result() }
