//go:build !windows

package recorder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSessionRecordsSimpleCommand(t *testing.T) {
	if _, err := os.Stat("/dev/ptmx"); err != nil {
		t.Skip("no /dev/ptmx available in this environment")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "typescript")

	sess, err := Start(Options{
		Filename: path,
		Command:  "echo hello-from-recorder-test",
		Return:   true,
		Quiet:    true,
	})
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	done := make(chan struct{})
	var code int
	go func() {
		code, _ = sess.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not finish within 5s")
	}

	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading typescript: %v", err)
	}
	if !strings.Contains(string(data), "hello-from-recorder-test") {
		t.Errorf("typescript missing expected output, got %q", data)
	}
}

func TestSessionReturnsChildExitCode(t *testing.T) {
	if _, err := os.Stat("/dev/ptmx"); err != nil {
		t.Skip("no /dev/ptmx available in this environment")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "typescript")

	sess, err := Start(Options{
		Filename: path,
		Command:  "exit 5",
		Return:   true,
		Quiet:    true,
	})
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	done := make(chan struct{})
	var code int
	go func() {
		code, _ = sess.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not finish within 5s")
	}

	if code != 5 {
		t.Errorf("exit code = %d, want 5", code)
	}
}
