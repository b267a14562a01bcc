//go:build windows

package ttystate

import "errors"

// State is a no-op placeholder on Windows, mirroring the teacher's own
// terminal_windows.go stub pattern: ConPTY owns terminal-attribute
// management, so this package's POSIX ioctl-based raw mode has no
// Windows equivalent here.
type State struct{}

func Snapshot(fd int) (*State, error) { return &State{}, nil }

func (s *State) IsATTY() bool { return false }

func (s *State) Raw() error { return errors.New("ttystate: raw mode unsupported on windows") }

func (s *State) Restore() error { return nil }

func (s *State) ApplyTo(fd int) error { return nil }

func WinSize(fd int) (rows, cols uint16, err error) {
	return 0, 0, errors.New("ttystate: WinSize unsupported on windows")
}
