//go:build !windows

package recorder

import "golang.org/x/sys/unix"

// dupFd duplicates fd onto a fresh close-on-exec descriptor, so the
// cascade's own unix.Close calls never touch the process's real fds 0/1
// and a spawned child never inherits the recorder's private duplicates.
func dupFd(fd int) (int, error) {
	return unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
}
