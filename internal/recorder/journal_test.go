//go:build !windows

package recorder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenJournalWritesHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typescript")

	j, err := OpenJournal(path, false, false, false)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "Script started on ") {
		t.Errorf("missing header, got %q", data)
	}
}

func TestOpenJournalQuietSkipsHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typescript")

	j, err := OpenJournal(path, false, false, true)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf("quiet mode should skip the header, got %q", data)
	}
}

func TestOpenJournalAppendVsTruncate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typescript")

	if err := os.WriteFile(path, []byte("existing content\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	j, err := OpenJournal(path, false, false, true)
	if err != nil {
		t.Fatal(err)
	}
	j.Write([]byte("new"))
	j.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "existing content") {
		t.Errorf("non-append open should truncate, got %q", data)
	}

	if err := os.WriteFile(path, []byte("existing content\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	j2, err := OpenJournal(path, true, false, true)
	if err != nil {
		t.Fatal(err)
	}
	j2.Write([]byte("appended"))
	j2.Close()

	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "existing content") || !strings.Contains(string(data), "appended") {
		t.Errorf("append open should preserve prior content, got %q", data)
	}
}

func TestRefuseIfLinkIgnoresNonDefaultNames(t *testing.T) {
	if err := RefuseIfLink("some-other-name"); err != nil {
		t.Errorf("non-default filenames should never be refused: %v", err)
	}
}

func TestRefuseIfLinkAllowsMissingFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := RefuseIfLink(DefaultFilename); err != nil {
		t.Errorf("a nonexistent typescript should not be refused: %v", err)
	}
}

func TestRefuseIfLinkRejectsSymlink(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	target := filepath.Join(dir, "real-file")
	os.WriteFile(target, []byte("x"), 0o600)
	if err := os.Symlink(target, DefaultFilename); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := RefuseIfLink(DefaultFilename); err == nil {
		t.Error("a symlinked typescript should be refused")
	}
}
