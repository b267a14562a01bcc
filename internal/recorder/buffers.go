package recorder

import "github.com/smallnest/ringbuffer"

// bufCap is the fixed capacity of each of the three buffers in spec.md §3:
// pty_out_buf, stdout_buf, and journal_buf.
const bufCap = 64 * 1024

// ring wraps smallnest/ringbuffer.RingBuffer with the capacity/pending/
// headroom query spec.md's design notes ask for (§9, "Shared byte
// streams"), instead of hand-rolling memmove-compaction over a fixed
// array the way script.c's BUFSIZ-sized obuf/ibuf do.
type ring struct {
	buf *ringbuffer.RingBuffer
}

func newRing(capacity int) *ring {
	return &ring{buf: ringbuffer.New(capacity)}
}

// Pending is the number of buffered, not-yet-drained bytes.
func (r *ring) Pending() int { return r.buf.Length() }

// Capacity is the buffer's fixed size.
func (r *ring) Capacity() int { return r.buf.Capacity() }

// Headroom is the free space left before the buffer is full.
func (r *ring) Headroom() int { return r.Capacity() - r.Pending() }

// Empty reports whether nothing is buffered.
func (r *ring) Empty() bool { return r.Pending() == 0 }

// Append enqueues p, growing pending by len(p). Callers are expected to
// have already checked Headroom — this mirrors the readiness-gated
// invariant I3 in spec.md §3, so a short write here indicates a logic
// error in the caller's readiness check, not a recoverable condition.
func (r *ring) Append(p []byte) (int, error) {
	return r.buf.Write(p)
}

// Drain writes up to len(p) buffered bytes into p and returns how many
// were copied.
func (r *ring) Drain(p []byte) (int, error) {
	n, err := r.buf.TryRead(p)
	if err != nil && n == 0 {
		return 0, nil
	}
	return n, nil
}
