//go:build windows

package ptyboot

import (
	"errors"
	"os"
	"os/exec"
)

// Pty is an unsupported placeholder on Windows: spec.md's model (ptmx,
// grantpt/unlockpt, setsid, SIGWINCH) is POSIX-specific, and Windows'
// ConPTY equivalent is out of scope here, mirroring the teacher's own
// terminal_windows.go, which substitutes a different process-management
// story rather than pretending to share one with Unix.
type Pty struct {
	Master *os.File
	Slave  *os.File
	Name   string
}

func Open() (*Pty, error) {
	return nil, errors.New("ptyboot: pty recording is unsupported on windows")
}

func (p *Pty) SetSize(rows, cols uint16) error {
	return errors.New("ptyboot: unsupported on windows")
}

func ShellCommand(cmdLine string) (path string, argv []string) {
	if cmdLine != "" {
		return "cmd.exe", []string{"cmd.exe", "/C", cmdLine}
	}
	return "cmd.exe", []string{"cmd.exe"}
}

func Spawn(p *Pty, env []string, cmdLine string, ttyAttrFd func(fd int) error) (*exec.Cmd, error) {
	return nil, errors.New("ptyboot: unsupported on windows")
}
