package irq

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"

	"github.com/joshuapare/kheap/internal/format"
)

// ErrBadCapacity indicates a ring capacity that is not a power of two.
var ErrBadCapacity = errors.New("irq: ring capacity must be a power of two")

// Ring is a fixed-capacity single-producer single-consumer byte queue.
// Push and Pop never allocate, so Push is safe in an interrupt handler.
//
// Thread-safety: one goroutine may Push while another Pops.
type Ring struct {
	buf  []byte
	mask uint64

	head atomic.Uint64 // next slot to pop, advanced by the consumer
	tail atomic.Uint64 // next slot to push, advanced by the producer

	dropped atomic.Uint64
}

// NewRing creates a ring holding up to capacity bytes.
func NewRing(capacity int) (*Ring, error) {
	if capacity <= 0 || !format.IsPowerOfTwo(uint64(capacity)) {
		return nil, errors.Wrapf(ErrBadCapacity, "capacity=%d", capacity)
	}
	return &Ring{buf: make([]byte, capacity), mask: uint64(capacity - 1)}, nil
}

// Push appends b. When the ring is full b is dropped and counted.
func (r *Ring) Push(b byte) bool {
	tail := r.tail.Load()
	if tail-r.head.Load() == uint64(len(r.buf)) {
		r.dropped.Add(1)
		return false
	}
	r.buf[tail&r.mask] = b
	r.tail.Store(tail + 1)
	return true
}

// Pop removes the oldest byte.
func (r *Ring) Pop() (byte, bool) {
	head := r.head.Load()
	if head == r.tail.Load() {
		return 0, false
	}
	b := r.buf[head&r.mask]
	r.head.Store(head + 1)
	return b, true
}

// Len returns the number of queued bytes.
func (r *Ring) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Cap returns the ring capacity.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Dropped returns the number of bytes lost to a full ring.
func (r *Ring) Dropped() uint64 {
	return r.dropped.Load()
}
