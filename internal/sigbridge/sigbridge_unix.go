//go:build !windows

// Package sigbridge implements C4: translating SIGWINCH and child death
// into events the cooperative event loop can select() on, per spec.md
// §4.3 and the self-pipe design note in §9 ("replace signal-handler side
// effects on globals with a self-pipe that turns every SIGCHLD and
// SIGWINCH into a readable event; the loop uniformly handles them").
//
// Go has no user-installable async-signal-context handler the way C does:
// os/signal delivers to a channel from a runtime-owned dispatcher, and the
// runtime itself reaps children for its own bookkeeping. The idiomatic
// rendering of the C design here is: one goroutine turns SIGWINCH channel
// events into winsize bytes on a pipe (exactly the "write the winsize
// struct (bytewise) to a pipe" spec.md describes), and a second goroutine
// owns cmd.Wait() — the Go-native child-reap path — and signals the loop
// through a second, data-free wake pipe so a blocked select() on the main
// fd set still returns promptly instead of waiting for a data fd to
// become ready on its own.
package sigbridge

import (
	"os"
	"os/exec"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"

	"script-tty/internal/ttystate"
)

// ChildResult is the reaped wait status, spec.md's child_status.
type ChildResult struct {
	ExitCode int
	Signaled bool
	Signal   int
}

// Bridge owns the resize and wake self-pipes and the background
// goroutines that feed them.
type Bridge struct {
	ptyMasterFd int

	winch       chan os.Signal
	resizeRead  *os.File
	resizeWrite *os.File

	wakeRead  *os.File
	wakeWrite *os.File

	die    atomic.Bool
	result atomic.Pointer[ChildResult]

	stop chan struct{}
}

// New creates the bridge and starts watching SIGWINCH. ptyMasterFd is the
// pty master, onto which resize events are pushed via TIOCSWINSZ before
// being echoed into the journal.
func New(ptyMasterFd int) (*Bridge, error) {
	rr, rw, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	wr, ww, err := os.Pipe()
	if err != nil {
		rr.Close()
		rw.Close()
		return nil, err
	}
	b := &Bridge{
		ptyMasterFd: ptyMasterFd,
		resizeRead:  rr,
		resizeWrite: rw,
		wakeRead:    wr,
		wakeWrite:   ww,
		winch:       make(chan os.Signal, 8),
		stop:        make(chan struct{}),
	}
	signal.Notify(b.winch, syscall.SIGWINCH)
	go b.watchResize()
	return b, nil
}

// ResizeReadFd is the resize_read_fd of spec.md's data model, armed for
// read whenever the journal has room for a worst-case resize marker.
func (b *Bridge) ResizeReadFd() int { return int(b.resizeRead.Fd()) }

// WakeReadFd is an implementation-internal 6th fd (see SPEC_FULL.md §5
// "Process model"): armed unconditionally so the loop wakes up promptly
// when the child dies even if no other fd happens to become ready first.
func (b *Bridge) WakeReadFd() int { return int(b.wakeRead.Fd()) }

// watchResize runs for the session's lifetime, translating each SIGWINCH
// into a winsize struct written bytewise to the resize pipe. Per spec.md
// §4.3, errors writing to the pipe are silently swallowed — the bridge
// has no way to signal failure without risking the process itself.
func (b *Bridge) watchResize() {
	for {
		select {
		case <-b.stop:
			return
		case <-b.winch:
			rows, cols, err := ttystate.WinSize(0)
			if err != nil {
				continue
			}
			ws := unix.Winsize{Row: rows, Col: cols}
			_ = unix.IoctlSetWinsize(b.ptyMasterFd, unix.TIOCSWINSZ, &ws)
			buf := make([]byte, 8)
			putUint16(buf[0:2], rows)
			putUint16(buf[2:4], cols)
			_, _ = b.resizeWrite.Write(buf)
		}
	}
}

func putUint16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// ReadResize decodes one winsize record, as read off the resize pipe by
// the caller, and returns the rows/cols it carries.
func ReadResize(buf []byte) (rows, cols uint16) {
	rows = uint16(buf[0]) | uint16(buf[1])<<8
	cols = uint16(buf[2]) | uint16(buf[3])<<8
	return
}

// WatchChild reaps cmd in the background (the Go-native analog of script.c's
// SIGCHLD handler calling wait3/WNOHANG) and wakes the loop once it exits.
func (b *Bridge) WatchChild(cmd *exec.Cmd) {
	go func() {
		err := cmd.Wait()
		res := &ChildResult{}
		if ee, ok := err.(*exec.ExitError); ok {
			if ws, ok := ee.Sys().(syscall.WaitStatus); ok {
				if ws.Signaled() {
					res.Signaled = true
					res.Signal = int(ws.Signal())
				} else {
					res.ExitCode = ws.ExitStatus()
				}
			}
		}
		b.result.Store(res)
		b.die.Store(true)
		_, _ = b.wakeWrite.Write([]byte{0})
	}()
}

// Die reports spec.md's `die` flag.
func (b *Bridge) Die() bool { return b.die.Load() }

// Result returns the reaped child status, or nil if the child hasn't
// exited yet.
func (b *Bridge) Result() *ChildResult { return b.result.Load() }

// Close stops the resize watcher and releases the pipes.
func (b *Bridge) Close() {
	signal.Stop(b.winch)
	close(b.stop)
	b.resizeRead.Close()
	b.resizeWrite.Close()
	b.wakeRead.Close()
	b.wakeWrite.Close()
}
