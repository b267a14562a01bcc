package rerr

import (
	"errors"
	"testing"
)

func TestExitCodeMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"usage", Usage("bad flag"), ExitUsage},
		{"setup", Setup("pty failed", errors.New("denied")), ExitOSError},
		{"runtime_io", RuntimeIO("write failed", errors.New("epipe")), ExitIOError},
		{"unknown_error_type", errors.New("plain error"), ExitIOError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Setup("failed to open", cause)
	if !errors.Is(err, cause) {
		t.Error("Setup error should unwrap to its cause")
	}
}

func TestErrorMessageWithAndWithoutCause(t *testing.T) {
	withCause := Setup("failed to open", errors.New("denied"))
	if withCause.Error() != "failed to open: denied" {
		t.Errorf("got %q", withCause.Error())
	}
	noCause := Usage("bad flag")
	if noCause.Error() != "bad flag" {
		t.Errorf("got %q", noCause.Error())
	}
}

func TestChildExitCode(t *testing.T) {
	if got := ChildExitCode(3, false, 0); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
	if got := ChildExitCode(0, true, 9); got != 0x80|9 {
		t.Errorf("got %#x, want %#x", got, 0x80|9)
	}
}
