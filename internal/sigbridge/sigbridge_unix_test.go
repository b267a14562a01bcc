//go:build !windows

package sigbridge

import (
	"os/exec"
	"testing"
	"time"
)

func TestReadResizeRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	putUint16(buf[0:2], 24)
	putUint16(buf[2:4], 80)
	rows, cols := ReadResize(buf)
	if rows != 24 || cols != 80 {
		t.Errorf("ReadResize() = %d, %d, want 24, 80", rows, cols)
	}
}

func TestBridgeWatchChildReapsExitCode(t *testing.T) {
	b, err := New(0)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	cmd := exec.Command("/bin/sh", "-c", "exit 7")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot spawn /bin/sh: %v", err)
	}
	b.WatchChild(cmd)

	deadline := time.After(2 * time.Second)
	for {
		if b.Die() {
			break
		}
		select {
		case <-deadline:
			t.Fatal("child reap did not complete in time")
		case <-time.After(10 * time.Millisecond):
		}
	}

	res := b.Result()
	if res == nil {
		t.Fatal("Result() returned nil after Die()")
	}
	if res.Signaled {
		t.Errorf("child exited normally, should not be reported as signaled")
	}
	if res.ExitCode != 7 {
		t.Errorf("ExitCode = %d, want 7", res.ExitCode)
	}
}

func TestBridgeResultNilBeforeChildExits(t *testing.T) {
	b, err := New(0)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if b.Die() {
		t.Error("Die() should be false before any child is watched")
	}
	if b.Result() != nil {
		t.Error("Result() should be nil before any child is watched")
	}
}
