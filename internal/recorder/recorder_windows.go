//go:build windows

package recorder

import "errors"

// DefaultFilename mirrors the unix build's constant so callers don't need
// a build-tagged reference just to print a default name.
const DefaultFilename = "typescript"

// Options mirrors the unix build's Options so cmd/script stays
// platform-agnostic; Start always fails here, the way the teacher's own
// terminal_windows.go substitutes a different story rather than
// pretending to share the POSIX pty path.
type Options struct {
	Filename string
	Append   bool
	Command  string
	Sync     bool
	Quiet    bool
	Return   bool
	Timing   bool

	Tap      func([]byte)
	OnResize func(rows, cols uint16)
}

type Session struct{}

func Start(opts Options) (*Session, error) {
	return nil, errors.New("recorder: terminal recording is unsupported on windows")
}

func (s *Session) Run() (int, error) { return 71, errors.New("recorder: unsupported on windows") }

func (s *Session) Filename() string { return "" }
