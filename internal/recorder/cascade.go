//go:build !windows

package recorder

import "golang.org/x/sys/unix"

// runCascade applies spec.md §4.4's five shutdown rules repeatedly until
// a full pass makes no further transition, so that an fd closing in step
// N can immediately unblock a rule later in the same pass (or the next
// pass) within the same loop iteration, rather than waiting a whole
// extra select() round-trip per hop down the chain.
func (l *Loop) runCascade() {
	for l.cascadePass() {
	}
}

func (l *Loop) cascadePass() (changed bool) {
	// 1. stdout closes once drained, the pty can produce no more, and
	// stdin is already gone.
	if l.stdoutOpen && l.stdoutBuf.Empty() && !l.ptyReadOpen {
		if !l.stdinOpen {
			l.restore()
			l.stdoutOpen = false
			_ = unix.Close(l.stdoutFd)
			changed = true
		}
	}

	// 2. The journal closes once drained and the pty can produce no more.
	// If the footer has not been enqueued yet (the journal was already
	// drained when the pty closed), it is enqueued here and the journal
	// stays open until a later write flushes it.
	if l.journalOpen && l.journalBuf.Empty() && !l.ptyReadOpen {
		if !l.footerEnqueued {
			l.footerEnqueued = true
			if !l.journal.quiet {
				_, _ = l.journalBuf.Append(l.journal.FooterBytes())
				changed = true
			}
		}
		if l.journalBuf.Empty() {
			l.journalOpen = false
			_ = l.journal.Close()
			changed = true
		}
	}

	// 3. The pty's write side closes once its queue is drained and stdin
	// is gone, so no more input can ever be queued for it.
	if l.ptyWriteOpen && l.ptyOutBuf.Empty() && !l.stdinOpen {
		l.ptyWriteOpen = false
		l.closePtyIfDone()
		changed = true
	}

	// 4. stdin closes once the pty can no longer accept input, or the
	// child has died outright. Whichever of stdin/stdout closes last
	// performs the tty restore.
	if l.stdinOpen && (!l.ptyWriteOpen || l.bridge.Die()) {
		if !l.stdoutOpen {
			l.restore()
		}
		l.stdinOpen = false
		_ = unix.Close(l.stdinFd)
		changed = true
	}

	// 5. The pty's read side closes once stdout is gone — nobody is left
	// to receive its output.
	if l.ptyReadOpen && !l.stdoutOpen {
		l.ptyReadOpen = false
		l.closePtyIfDone()
		changed = true
	}

	return changed
}

func (l *Loop) closePtyIfDone() {
	if !l.ptyReadOpen && !l.ptyWriteOpen && !l.ptyFdClosed {
		l.ptyFdClosed = true
		_ = unix.Close(l.ptyFd)
	}
}
