//go:build !windows

package recorder

import (
	"golang.org/x/sys/unix"

	"script-tty/internal/tsformat"
)

// fdbits is NFDBITS: the number of bits packed into each element of an
// unix.FdSet.Bits array.
const fdbits = 64

func fdZero(set *unix.FdSet) {
	for i := range set.Bits {
		set.Bits[i] = 0
	}
}

func fdSetBit(set *unix.FdSet, fd int) {
	set.Bits[fd/fdbits] |= 1 << (uint(fd) % fdbits)
}

func fdIsSet(set *unix.FdSet, fd int) bool {
	if set == nil {
		return false
	}
	return set.Bits[fd/fdbits]&(1<<(uint(fd)%fdbits)) != 0
}

// buildReadSet arms each fd for read exactly when spec.md §4.4's
// readiness rules say it may safely produce more data without
// overflowing a downstream buffer.
func (l *Loop) buildReadSet() *unix.FdSet {
	var set unix.FdSet
	fdZero(&set)
	any := false

	if l.stdinOpen && l.ptyOutBuf.Headroom() > 0 {
		fdSetBit(&set, l.stdinFd)
		any = true
	}

	if l.ptyReadOpen {
		stdoutPending := l.stdoutBuf.Pending()
		journalPending := l.journalBuf.Pending()
		worstJournal := journalPending + tsformat.MaxDelayMarkerLen
		headroomOK := max(stdoutPending, worstJournal) < min(l.stdoutBuf.Capacity(), l.journalBuf.Capacity())
		if headroomOK {
			fdSetBit(&set, l.ptyFd)
			any = true
		}
	}

	if l.bridge != nil {
		if l.journalBuf.Pending()+tsformat.MaxResizeMarkerLen <= l.journalBuf.Capacity() {
			fdSetBit(&set, l.bridge.ResizeReadFd())
			any = true
		}
		fdSetBit(&set, l.bridge.WakeReadFd())
		any = true
	}

	if !any {
		return nil
	}
	return &set
}

func (l *Loop) buildWriteSet() *unix.FdSet {
	var set unix.FdSet
	fdZero(&set)
	any := false

	if l.ptyWriteOpen && !l.ptyOutBuf.Empty() {
		fdSetBit(&set, l.ptyFd)
		any = true
	}
	if l.stdoutOpen && !l.stdoutBuf.Empty() {
		fdSetBit(&set, l.stdoutFd)
		any = true
	}
	if l.journalOpen && !l.journalBuf.Empty() {
		fdSetBit(&set, l.journal.Fd())
		any = true
	}

	if !any {
		return nil
	}
	return &set
}

func (l *Loop) maxFd(rset, wset *unix.FdSet) int {
	m := 0
	consider := func(fd int) {
		if fd > m {
			m = fd
		}
	}
	if rset != nil {
		consider(l.stdinFd)
		consider(l.ptyFd)
		if l.bridge != nil {
			consider(l.bridge.ResizeReadFd())
			consider(l.bridge.WakeReadFd())
		}
	}
	if wset != nil {
		consider(l.ptyFd)
		consider(l.stdoutFd)
		if l.journalOpen {
			consider(l.journal.Fd())
		}
	}
	return m
}
