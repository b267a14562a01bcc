package recorder

import "testing"

func TestRingAppendDrain(t *testing.T) {
	r := newRing(16)
	if !r.Empty() {
		t.Fatal("new ring should be empty")
	}
	if r.Capacity() != 16 {
		t.Fatalf("Capacity() = %d, want 16", r.Capacity())
	}
	n, err := r.Append([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Append() = %d, %v", n, err)
	}
	if r.Empty() {
		t.Fatal("ring with pending bytes should not be empty")
	}
	if r.Pending() != 5 {
		t.Fatalf("Pending() = %d, want 5", r.Pending())
	}
	if r.Headroom() != 11 {
		t.Fatalf("Headroom() = %d, want 11", r.Headroom())
	}

	buf := make([]byte, 5)
	n, err = r.Drain(buf)
	if err != nil || n != 5 {
		t.Fatalf("Drain() = %d, %v", n, err)
	}
	if string(buf) != "hello" {
		t.Fatalf("Drain() copied %q, want hello", buf)
	}
	if !r.Empty() {
		t.Fatal("ring should be empty after draining everything")
	}
}

func TestRingDrainPartial(t *testing.T) {
	r := newRing(16)
	r.Append([]byte("0123456789"))

	buf := make([]byte, 4)
	n, err := r.Drain(buf)
	if err != nil || n != 4 {
		t.Fatalf("Drain() = %d, %v", n, err)
	}
	if string(buf[:n]) != "0123" {
		t.Fatalf("got %q, want 0123", buf[:n])
	}
	if r.Pending() != 6 {
		t.Fatalf("Pending() = %d, want 6", r.Pending())
	}
}

func TestRingDrainEmptyReturnsZero(t *testing.T) {
	r := newRing(16)
	buf := make([]byte, 4)
	n, err := r.Drain(buf)
	if err != nil || n != 0 {
		t.Fatalf("Drain() on empty ring = %d, %v, want 0, nil", n, err)
	}
}
