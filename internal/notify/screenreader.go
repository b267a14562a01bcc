// Package notify implements the optional completion-notifier supplement
// from SPEC_FULL.md §3.3: a live-time convenience that watches a
// recording session's pty output through a virtual terminal emulator and
// sends a Telegram message when the session ends, carrying whatever is
// currently on screen. It never touches the typescript or the replayer —
// it is a notification side channel, not a reinterpretation of the
// recorded stream.
package notify

import (
	"strings"

	"github.com/charmbracelet/x/vt"
)

// ScreenReader feeds raw pty bytes through a virtual terminal emulator so
// the notifier can read "what a human would see" instead of a stream of
// escape sequences.
type ScreenReader struct {
	emu *vt.SafeEmulator
}

func NewScreenReader(cols, rows int) *ScreenReader {
	return &ScreenReader{emu: vt.NewSafeEmulator(cols, rows)}
}

func (sr *ScreenReader) Write(data []byte) (int, error) {
	return sr.emu.Write(data)
}

// Screen returns the current screen content as plain text, trailing
// whitespace and trailing empty lines trimmed.
func (sr *ScreenReader) Screen() string {
	raw := sr.emu.String()
	lines := strings.Split(raw, "\n")
	lastNonEmpty := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimRight(lines[i], " \t\r") != "" {
			lastNonEmpty = i
			break
		}
	}
	if lastNonEmpty < 0 {
		return ""
	}
	trimmed := make([]string, lastNonEmpty+1)
	for i := 0; i <= lastNonEmpty; i++ {
		trimmed[i] = strings.TrimRight(lines[i], " \t\r")
	}
	return strings.Join(trimmed, "\n")
}

// Resize changes the virtual terminal dimensions, kept in step with the
// recorder's SIGWINCH-driven resizes.
func (sr *ScreenReader) Resize(cols, rows int) {
	sr.emu.Resize(cols, rows)
}
