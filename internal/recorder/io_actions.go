//go:build !windows

package recorder

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"script-tty/internal/rerr"
	"script-tty/internal/sigbridge"
	"script-tty/internal/tsformat"
)

// drainWrite flushes everything currently pending in r to fd, looping
// over short writes, and reports how the fd's open flag should change.
// ok=false means the sink is gone and further writes should stop.
func drainWrite(fd int, r *ring) (ok bool, fatalErr error) {
	pending := r.Pending()
	if pending == 0 {
		return true, nil
	}
	buf := make([]byte, pending)
	n, _ := r.Drain(buf)
	buf = buf[:n]

	for len(buf) > 0 {
		written, err := unix.Write(fd, buf)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			if errors.Is(err, unix.EPIPE) || errors.Is(err, unix.ECONNRESET) {
				return false, nil
			}
			return false, rerr.RuntimeIO("write failed", err)
		}
		buf = buf[written:]
	}
	return true, nil
}

func (l *Loop) writePty() {
	ok, err := drainWrite(l.ptyFd, l.ptyOutBuf)
	if err != nil {
		l.fatal, l.fatalErr = true, err
		return
	}
	if !ok {
		l.ptyWriteOpen = false
	}
}

func (l *Loop) writeStdout() {
	ok, err := drainWrite(l.stdoutFd, l.stdoutBuf)
	if err != nil {
		l.fatal, l.fatalErr = true, err
		return
	}
	if !ok {
		l.stdoutOpen = false
	}
}

func (l *Loop) writeJournal() {
	pending := l.journalBuf.Pending()
	if pending == 0 {
		return
	}
	buf := make([]byte, pending)
	n, _ := l.journalBuf.Drain(buf)
	buf = buf[:n]

	if _, err := l.journal.Write(buf); err != nil {
		// The typescript file itself failing is fatal: there is no
		// sink to silently drop it behind, unlike stdout/pty.
		l.fatal, l.fatalErr = true, rerr.RuntimeIO("journal write failed", err)
		return
	}

	if l.journalBuf.Empty() && !l.ptyReadOpen && !l.footerEnqueued {
		l.footerEnqueued = true
		if !l.journal.quiet {
			_, _ = l.journalBuf.Append(l.journal.FooterBytes())
		}
	}
}

func (l *Loop) readResize() {
	buf := make([]byte, 8)
	n, err := unix.Read(l.bridge.ResizeReadFd(), buf)
	if err != nil || n == 0 {
		return
	}
	rows, cols := sigbridge.ReadResize(buf)
	marker := tsformat.EncodeResize(rows, cols)
	_, _ = l.journalBuf.Append(marker)
	if l.OnResize != nil {
		l.OnResize(rows, cols)
	}
}

// ptyReadCap bounds the next pty read to what both stdoutBuf and
// journalBuf can actually absorb, so the read() syscall itself enforces
// invariant I3 instead of a silent ring-buffer truncation after the
// fact — the same role script.c's `read(fd, buf, BUFSIZ - cc)` plays by
// sizing the read to remaining room rather than overreading and
// discarding. journalBuf must additionally hold the delay marker that
// precedes the data in the same Append sequence.
func (l *Loop) ptyReadCap() int {
	n := min(readChunk, l.stdoutBuf.Headroom())
	n = min(n, l.journalBuf.Headroom()-tsformat.MaxDelayMarkerLen)
	return n
}

func (l *Loop) readPty() {
	want := l.ptyReadCap()
	if want <= 0 {
		return
	}
	buf := make([]byte, want)
	n, err := unix.Read(l.ptyFd, buf)
	if n == 0 || errors.Is(err, unix.EIO) {
		l.ptyReadOpen = false
		return
	}
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return
		}
		l.fatal, l.fatalErr = true, rerr.RuntimeIO("pty read failed", err)
		return
	}

	now := l.TimeFunc()
	delta := now.Sub(l.lastEmitTime).Seconds()
	l.lastEmitTime = now

	data := buf[:n]
	if l.Tap != nil {
		l.Tap(data)
	}
	if l.TimingOut != nil {
		fmt.Fprintf(l.TimingOut, "%.6f %d\n", delta, n)
	}

	marker := tsformat.EncodeDelay(delta)
	_, _ = l.journalBuf.Append(marker)
	_, _ = l.journalBuf.Append(data)
	_, _ = l.stdoutBuf.Append(data)
}

func (l *Loop) readStdin() {
	want := min(readChunk, l.ptyOutBuf.Headroom())
	if want <= 0 {
		return
	}
	buf := make([]byte, want)
	n, err := unix.Read(l.stdinFd, buf)
	if n == 0 || err != nil {
		l.stdinOpen = false
		return
	}
	_, _ = l.ptyOutBuf.Append(buf[:n])
}
