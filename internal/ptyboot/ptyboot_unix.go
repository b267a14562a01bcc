//go:build !windows

// Package ptyboot implements C2 (pty provisioner) and C3 (child spawner)
// from spec.md §4.2.
package ptyboot

import (
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/creack/pty"

	"script-tty/internal/rerr"
)

const defaultShell = "/bin/sh"

// Pty bundles the provisioned master/slave pair.
type Pty struct {
	Master *os.File
	Slave  *os.File
	Name   string
}

// Open allocates a pty master/slave pair (C2): opens the pty multiplexer,
// grants and unlocks it, and derives the slave's filesystem name. This is
// exactly grantpt()+unlockpt()+ptsname() from getmaster()/getslave() in
// script.c; creack/pty.Open performs those three steps for us.
func Open() (*Pty, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, rerr.Setup("opening a pty failed", err)
	}
	return &Pty{Master: master, Slave: slave, Name: slave.Name()}, nil
}

// SetSize pushes a window size onto the master, as getmaster()'s initial
// resize(0) call and every subsequent SIGWINCH do.
func (p *Pty) SetSize(rows, cols uint16) error {
	return pty.Setsize(p.Master, &pty.Winsize{Rows: rows, Cols: cols})
}

// ShellCommand resolves the child shell per spec.md §4.2: $SHELL if set,
// else a compiled-in default. With an explicit command it execs
// `shell -c <command>`; otherwise an interactive `shell -i`.
func ShellCommand(cmdLine string) (path string, argv []string) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = defaultShell
	}
	name := shell
	if i := strings.LastIndexByte(shell, '/'); i >= 0 {
		name = shell[i+1:]
	}
	if cmdLine != "" {
		return shell, []string{name, "-c", cmdLine}
	}
	return shell, []string{name, "-i"}
}

// Spawn starts the shell attached to the pty slave (C3). script.c's
// getslave() pushes the pty-emulation/line-discipline streams modules,
// copies the snapshotted termios onto the slave, calls setsid(), and makes
// the slave the controlling terminal before dup2'ing it onto fds 0/1/2 and
// execing. Go's exec.Cmd performs the fork+exec atomically in the runtime;
// SysProcAttr.Setsid/Setctty carries the setsid()+TIOCSCTTY work, and
// assigning the slave file to Stdin/Stdout/Stderr carries the three dup2
// calls. The termios copy already happened in the parent: the slave
// inherits the pty line discipline's current settings, which C1 set to raw
// mode on the controlling terminal's fd, not the slave's — script.c
// explicitly copies origtty (the pre-raw snapshot) onto the slave so the
// child shell sees a cooked tty; we do the same by writing the pristine
// snapshot to the slave before Start.
func Spawn(p *Pty, env []string, cmdLine string, ttyAttrFd func(fd int) error) (*exec.Cmd, error) {
	if ttyAttrFd != nil {
		if err := ttyAttrFd(int(p.Slave.Fd())); err != nil {
			return nil, rerr.Setup("failed to copy tty attributes to slave", err)
		}
	}
	shellPath, argv := ShellCommand(cmdLine)
	cmd := exec.Command(shellPath)
	cmd.Args = argv
	cmd.Env = env
	cmd.Stdin = p.Slave
	cmd.Stdout = p.Slave
	cmd.Stderr = p.Slave
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
	}
	if err := cmd.Start(); err != nil {
		return nil, rerr.Setup("failed to exec shell", err)
	}
	// The parent's copy of the slave is no longer needed: the child holds
	// its own fds 0/1/2 duped onto it.
	p.Slave.Close()
	return cmd, nil
}
