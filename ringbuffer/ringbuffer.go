// Package ringbuffer implements the power-of-two byte ring buffer used
// by the UART collaborator (and anything else that needs to shuttle
// bytes between an ISR and foreground code without allocating).
package ringbuffer

import "github.com/lpc43xx/sgpio/internal/mathx"

// RingBuffer is a fixed-capacity byte queue with 64-bit monotonic
// read/write cursors. Capacity must be a power of two so index masking
// replaces modulo division on the hot path (ISR-reachable Enqueue).
// The zero value is not usable; construct with New.
type RingBuffer struct {
	buf   []byte
	mask  uint64
	write uint64
	read  uint64
}

// New constructs a RingBuffer of the given capacity, which must be a
// power of two and at least 2. Panics otherwise: capacity is always a
// compile-time constant at call sites in this module, so there is no
// caller that benefits from a returned error here.
func New(capacity int) *RingBuffer {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		panic("ringbuffer: capacity must be a power of two >= 2")
	}
	return &RingBuffer{
		buf:  make([]byte, capacity),
		mask: uint64(capacity - 1),
	}
}

// Len reports the number of unread bytes currently queued.
func (r *RingBuffer) Len() int {
	return int(r.write - r.read)
}

// Cap reports total capacity.
func (r *RingBuffer) Cap() int {
	return len(r.buf)
}

// Full reports whether the buffer has no room for another Enqueue.
func (r *RingBuffer) Full() bool {
	return r.Len() == len(r.buf)
}

// Empty reports whether there is nothing to Dequeue.
func (r *RingBuffer) Empty() bool {
	return r.write == r.read
}

// Enqueue appends b. It reports false without modifying the buffer if
// full — callers that want overwrite semantics use EnqueueOverwrite.
func (r *RingBuffer) Enqueue(b byte) bool {
	if r.Full() {
		return false
	}
	r.buf[r.write&r.mask] = b
	r.write++
	return true
}

// EnqueueOverwrite appends b, discarding the oldest unread byte first
// if the buffer is full. Used where a collaborator would rather keep
// the freshest data than block or drop the incoming byte (e.g. a
// best-effort diagnostic stream).
func (r *RingBuffer) EnqueueOverwrite(b byte) {
	if r.Full() {
		r.read++
	}
	r.buf[r.write&r.mask] = b
	r.write++
}

// Dequeue removes and returns the oldest unread byte. ok is false if
// the buffer was empty.
func (r *RingBuffer) Dequeue() (b byte, ok bool) {
	if r.Empty() {
		return 0, false
	}
	b = r.buf[r.read&r.mask]
	r.read++
	return b, true
}

// Available returns how many more bytes can be enqueued before Full.
func (r *RingBuffer) Available() int {
	return mathx.Clamp(len(r.buf)-r.Len(), 0, len(r.buf))
}

// Reset empties the buffer without reallocating.
func (r *RingBuffer) Reset() {
	r.read = 0
	r.write = 0
}

// Position returns the read cursor modulo capacity: the byte offset the
// next Dequeue will return. Hardware shuttles that mirror their cursor
// into a caller-visible field (SGPIO's position_in_buffer) read this.
func (r *RingBuffer) Position() uint32 {
	return uint32(r.read & r.mask)
}
