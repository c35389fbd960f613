// Package irq is the interrupt side of the heap's locking rule: handlers
// never allocate. A handler hands data to normal context through a Ring,
// whose storage is fixed at construction, and Enter checks that the
// interrupted code was not inside the allocator.
package irq

import (
	"os"

	"github.com/cockroachdb/errors"

	"github.com/joshuapare/kheap/heap"
)

// ErrAllocatorHeld is the panic value of Enter when a handler fires while
// the heap lock is held. Such a handler would deadlock if it allocated.
var ErrAllocatorHeld = errors.New("irq: interrupt taken with allocator lock held")

// Assertions enables the Enter check. Controlled by the KHEAP_ASSERT env
// var; tests set it directly.
var Assertions = os.Getenv("KHEAP_ASSERT") != ""

// Handler is an interrupt handler. It must not allocate.
type Handler func()

// Enter marks entry to an interrupt handler. With Assertions on it panics
// with ErrAllocatorHeld if h's lock is held.
func Enter(h *heap.Heap) {
	if Assertions && h.Held() {
		panic(ErrAllocatorHeld)
	}
}

// Raise delivers a simulated interrupt: Enter, then fn.
func Raise(h *heap.Heap, fn Handler) {
	Enter(h)
	fn()
}
