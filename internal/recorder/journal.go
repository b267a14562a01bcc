//go:build !windows

package recorder

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"script-tty/internal/rerr"
)

// DefaultFilename is script.c's "typescript".
const DefaultFilename = "typescript"

// RefuseIfLink implements spec.md §4.6 / P6: a default-named typescript
// that is a symlink or has more than one hard link is refused, the way
// die_if_link() in script.c does, to resist a classic TOCTOU/race
// symlink attack against a world-writable default filename.
func RefuseIfLink(name string) error {
	if name != DefaultFilename {
		return nil
	}
	fi, err := os.Lstat(name)
	if err != nil {
		// Doesn't exist yet: nothing to refuse.
		return nil
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return rerr.Usage(fmt.Sprintf(
			"Warning: `%s' is a link.\nUse `script [options] %s' if you really want to use it.\nScript not started.", name, name))
	}
	if st, ok := fi.Sys().(*unix.Stat_t); ok && st.Nlink > 1 {
		return rerr.Usage(fmt.Sprintf(
			"Warning: `%s' has more than one link.\nUse `script [options] %s' if you really want to use it.\nScript not started.", name, name))
	}
	return nil
}

// Journal is C6: a sequential byte sink for the typescript, with optional
// append and synchronous-write modes, that writes the session header and
// footer.
type Journal struct {
	f      *os.File
	quiet  bool
	opened time.Time
}

// OpenJournal opens name with append or truncate semantics depending on
// append, setting O_SYNC when sync is requested (script -f). syncFlag
// always returns unix.O_SYNC; there is no fallback path for a platform
// without it.
func OpenJournal(name string, append, sync, quiet bool) (*Journal, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	if sync {
		flags |= syncFlag()
	}
	f, err := os.OpenFile(name, flags, 0600)
	if err != nil {
		return nil, rerr.Setup("cannot open "+name, err)
	}
	j := &Journal{f: f, quiet: quiet, opened: time.Now()}
	if !quiet {
		if err := j.writeHeader(); err != nil {
			f.Close()
			return nil, err
		}
	}
	return j, nil
}

func syncFlag() int {
	return unix.O_SYNC
}

func (j *Journal) writeHeader() error {
	line := fmt.Sprintf("Script started on %s\r\n", j.opened.UTC().Format("2006-01-02 15:04:05 MST"))
	_, err := j.f.WriteString(line)
	return err
}

// FooterBytes renders the session-done line for the moment the pty
// reaches natural EOF (spec.md §3, item 3). Callers route this through
// journal_buf like any other journal content rather than writing it
// directly, so it stays ordered behind whatever is still pending.
func (j *Journal) FooterBytes() []byte {
	return []byte(fmt.Sprintf("\r\nScript done on %s\r\n", time.Now().UTC().Format("2006-01-02 15:04:05 MST")))
}

// Write appends raw bytes (data plus any interleaved markers — journal_buf
// is the superset stream described in spec.md §3).
func (j *Journal) Write(p []byte) (int, error) { return j.f.Write(p) }

// Fd exposes the raw fd for the event loop's readiness wait.
func (j *Journal) Fd() int { return int(j.f.Fd()) }

// Close closes the underlying file. Idempotent relative to the caller's
// own open-flag per invariant I4 — callers must not call Close twice.
func (j *Journal) Close() error { return j.f.Close() }
