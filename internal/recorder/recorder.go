//go:build !windows

package recorder

import (
	"os"

	"script-tty/internal/ptyboot"
	"script-tty/internal/rerr"
	"script-tty/internal/sigbridge"
	"script-tty/internal/ttystate"
)

// Options mirrors script(1)'s CLI surface (spec.md §6): the flags that
// shape a recording session.
type Options struct {
	Filename string // positional typescript path; "" means DefaultFilename
	Append   bool   // -a
	Command  string // -c "<cmdline>"
	Sync     bool   // script -f (synchronous journal writes)
	Quiet    bool   // -q
	Return   bool   // -e: propagate the child's exit status as our own
	Timing   bool   // -t: emit legacy "sec.usec nbytes" lines on stderr

	// Tap and OnResize, if set, are wired directly onto the Loop: hooks
	// for the optional live-viewer and notifier supplements (SPEC_FULL.md
	// §3.2–§3.3) to observe the session without the recorder core
	// depending on either of them.
	Tap      func([]byte)
	OnResize func(rows, cols uint16)
}

// Session is the fully wired recorder: C1 through C6 glued together
// around one pty-backed child process.
type Session struct {
	opts     Options
	filename string
	tty      *ttystate.State
	p        *ptyboot.Pty
	bridge   *sigbridge.Bridge
	journal  *Journal
	loop     *Loop

	stdinDup  int
	stdoutDup int
}

// Filename is the typescript path the session actually opened (the
// resolved DefaultFilename when opts.Filename was empty), for callers
// that print a startup/completion status line naming it.
func (s *Session) Filename() string { return s.filename }

// Start provisions the pty, spawns the shell, and arms the signal bridge,
// returning a Session ready for Run. Every setup error after the tty has
// been put in raw mode restores it before returning, so callers only need
// to call Run (or, on a setup failure, nothing further).
func Start(opts Options) (*Session, error) {
	filename := opts.Filename
	if filename == "" {
		filename = DefaultFilename
	}
	if err := RefuseIfLink(filename); err != nil {
		return nil, err
	}

	tty, err := ttystate.Snapshot(0)
	if err != nil {
		return nil, rerr.Setup("failed to snapshot terminal", err)
	}

	p, err := ptyboot.Open()
	if err != nil {
		return nil, err
	}

	if rows, cols, err := ttystate.WinSize(0); err == nil {
		_ = p.SetSize(rows, cols)
	}

	if err := tty.Raw(); err != nil {
		return nil, err
	}

	journal, err := OpenJournal(filename, opts.Append, opts.Sync, opts.Quiet)
	if err != nil {
		tty.Restore()
		return nil, err
	}

	// Duplicate stdin/stdout so the cascade's own Close calls never touch
	// the process's real fds 0/1, which other goroutines (and defers up
	// the call stack) may still reference.
	stdinDup, err := dupFd(0)
	if err != nil {
		journal.Close()
		tty.Restore()
		return nil, rerr.Setup("failed to duplicate stdin", err)
	}
	stdoutDup, err := dupFd(1)
	if err != nil {
		os.NewFile(uintptr(stdinDup), "stdin-dup").Close()
		journal.Close()
		tty.Restore()
		return nil, rerr.Setup("failed to duplicate stdout", err)
	}

	bridge, err := sigbridge.New(int(p.Master.Fd()))
	if err != nil {
		os.NewFile(uintptr(stdinDup), "stdin-dup").Close()
		os.NewFile(uintptr(stdoutDup), "stdout-dup").Close()
		journal.Close()
		tty.Restore()
		return nil, rerr.Setup("failed to start signal bridge", err)
	}

	cmd, err := ptyboot.Spawn(p, os.Environ(), opts.Command, tty.ApplyTo)
	if err != nil {
		bridge.Close()
		os.NewFile(uintptr(stdinDup), "stdin-dup").Close()
		os.NewFile(uintptr(stdoutDup), "stdout-dup").Close()
		journal.Close()
		tty.Restore()
		return nil, err
	}
	bridge.WatchChild(cmd)

	loop := NewLoop(stdinDup, stdoutDup, int(p.Master.Fd()), journal, bridge, tty)
	if opts.Timing {
		loop.TimingOut = os.Stderr
	}
	loop.Tap = opts.Tap
	loop.OnResize = opts.OnResize

	return &Session{
		opts:      opts,
		filename:  filename,
		tty:       tty,
		p:         p,
		bridge:    bridge,
		journal:   journal,
		loop:      loop,
		stdinDup:  stdinDup,
		stdoutDup: stdoutDup,
	}, nil
}

// Run drives the event loop to completion and returns the process exit
// code per spec.md §7's error taxonomy, honoring -e if requested.
func (s *Session) Run() (int, error) {
	err := s.loop.Run()
	s.bridge.Close()
	if err != nil {
		return rerr.ExitCode(err), err
	}
	if s.opts.Return {
		if res := s.loop.ChildResult(); res != nil {
			return rerr.ChildExitCode(res.ExitCode, res.Signaled, res.Signal), nil
		}
	}
	return rerr.ExitOK, nil
}
