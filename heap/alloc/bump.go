package alloc

import (
	"github.com/cockroachdb/errors"

	"github.com/joshuapare/kheap/internal/buf"
)

// BumpAllocator hands out memory by advancing a cursor through the heap.
//
// Key characteristics:
//   - O(1) allocation: align the cursor, bump it past the block
//   - O(1) deallocation: decrement a live-allocation counter
//   - Zero bookkeeping memory: no free lists, no headers
//   - Reclamation is all-or-nothing: the cursor returns to the heap start
//     only when the last live allocation is freed
//
// Suited to short-lived, stack-like bursts of allocations, not to general
// purpose use.
type BumpAllocator struct {
	heapStart Addr
	heapEnd   Addr

	// next is the first unused address. Everything in [heapStart, next) has
	// been handed out since the last reset.
	next Addr

	// allocations counts live allocations.
	allocations int
}

// NewBump creates an uninitialized BumpAllocator. Call Init before use.
func NewBump() *BumpAllocator {
	return &BumpAllocator{}
}

// Init sets the cursor to the start of [start, start+size).
func (ba *BumpAllocator) Init(_ Memory, start Addr, size uint64) error {
	end, ok := buf.AddOverflowSafe(start, size)
	if !ok {
		return errors.Wrapf(ErrBadRegion, "bump: region 0x%x+%d wraps", start, size)
	}
	ba.heapStart = start
	ba.heapEnd = end
	ba.next = start
	ba.allocations = 0
	return nil
}

// Alloc rounds the cursor up to layout.Align and advances it by layout.Size.
func (ba *BumpAllocator) Alloc(layout Layout) (Addr, error) {
	allocStart, ok := alignUpChecked(ba.next, layout.Align)
	if !ok {
		logOOM("bump", layout)
		return 0, ErrOutOfMemory
	}
	allocEnd, ok := buf.AddOverflowSafe(allocStart, layout.Size)
	if !ok || allocEnd > ba.heapEnd {
		logOOM("bump", layout)
		return 0, ErrOutOfMemory
	}

	ba.next = allocEnd
	ba.allocations++
	return allocStart, nil
}

// Dealloc drops one live allocation. When none remain, the whole heap
// becomes available again; otherwise the freed bytes stay unusable.
func (ba *BumpAllocator) Dealloc(_ Addr, _ Layout) {
	ba.allocations--
	if ba.allocations == 0 {
		ba.next = ba.heapStart
	}
}

// Compile-time interface check
var _ Allocator = (*BumpAllocator)(nil)
