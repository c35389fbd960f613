package alloc

import (
	"github.com/cockroachdb/errors"

	"github.com/joshuapare/kheap/internal/buf"
	"github.com/joshuapare/kheap/internal/format"
)

// LinkedListAllocator is a first-fit allocator over a singly linked list of
// free regions. Each region's header lives in the region itself:
//
//	region start → [size][next] ...free bytes...
//
// Key characteristics:
//   - List order is LIFO: a freed block is pushed at the head, so the most
//     recently freed region is considered first
//   - A region is usable only if the leftover after the block is zero or can
//     hold a region header, so every split remainder is a valid region
//   - No coalescing: adjacent free regions stay separate, so alternating
//     alloc/free of different sizes fragments the heap over time
//   - Padding skipped to reach an aligned start is not returned to the list
type LinkedListAllocator struct {
	mem  Memory
	head Addr // first free region, format.NilAddr when empty
}

// NewLinkedList creates an uninitialized LinkedListAllocator. Call Init before use.
func NewLinkedList() *LinkedListAllocator {
	return &LinkedListAllocator{}
}

// Init makes [start, start+size) the single free region.
func (la *LinkedListAllocator) Init(mem Memory, start Addr, size uint64) error {
	if start == format.NilAddr || !format.IsAligned(start, format.WordSize) {
		return errors.Wrapf(ErrBadRegion, "free list: start 0x%x not word aligned", start)
	}
	if size < format.RegionHeaderSize {
		return errors.Wrapf(ErrBadRegion, "free list: size %d below header size", size)
	}
	if _, ok := buf.AddOverflowSafe(start, size); !ok {
		return errors.Wrapf(ErrBadRegion, "free list: region 0x%x+%d wraps", start, size)
	}
	la.mem = mem
	la.head = format.NilAddr
	la.addFreeRegion(start, size)
	return nil
}

// Alloc returns the aligned start of the first region that can hold layout.
func (la *LinkedListAllocator) Alloc(layout Layout) (Addr, error) {
	size, align := sizeAlign(layout)

	regionEnd, allocStart, ok := la.findRegion(size, align)
	if !ok {
		logOOM("free list", layout)
		return 0, ErrOutOfMemory
	}

	allocEnd := allocStart + size
	if excess := regionEnd - allocEnd; excess > 0 {
		la.addFreeRegion(allocEnd, excess)
	}
	return allocStart, nil
}

// Dealloc pushes the block back as a new region at the head of the list.
func (la *LinkedListAllocator) Dealloc(addr Addr, layout Layout) {
	size, _ := sizeAlign(layout)
	la.addFreeRegion(addr, size)
}

// Regions returns the free regions in list order.
func (la *LinkedListAllocator) Regions() []FreeRegion {
	var out []FreeRegion
	for r := la.head; r != format.NilAddr; r = regionNext(la.mem, r) {
		out = append(out, FreeRegion{Start: r, Size: regionSize(la.mem, r)})
	}
	return out
}

// addFreeRegion writes a region header at addr and pushes it at the head.
// addr must be word aligned and size at least format.RegionHeaderSize.
func (la *LinkedListAllocator) addFreeRegion(addr Addr, size uint64) {
	putRegion(la.mem, addr, size, la.head)
	la.head = addr
}

// findRegion unlinks and returns the first region that can hold size bytes
// at align. It returns the region end and the aligned allocation start.
func (la *LinkedListAllocator) findRegion(size, align uint64) (Addr, Addr, bool) {
	prev := Addr(format.NilAddr)
	for r := la.head; r != format.NilAddr; r = regionNext(la.mem, r) {
		end := r + regionSize(la.mem, r)
		if allocStart, ok := allocFromRegion(r, end, size, align); ok {
			next := regionNext(la.mem, r)
			if prev == format.NilAddr {
				la.head = next
			} else {
				setRegionNext(la.mem, prev, next)
			}
			return end, allocStart, true
		}
		prev = r
	}
	return 0, 0, false
}

// allocFromRegion checks whether [start, end) can hold size bytes at align
// with a leftover that is either empty or large enough for a region header.
func allocFromRegion(start, end Addr, size, align uint64) (Addr, bool) {
	allocStart, ok := alignUpChecked(start, align)
	if !ok {
		return 0, false
	}
	allocEnd, ok := buf.AddOverflowSafe(allocStart, size)
	if !ok {
		return 0, false
	}
	excess, ok := buf.SubUnderflowSafe(end, allocEnd)
	if !ok {
		return 0, false
	}
	if excess > 0 && excess < format.RegionHeaderSize {
		return 0, false
	}
	return allocStart, true
}

// sizeAlign normalizes a layout so any block this allocator hands out can
// later hold a region header: alignment at least a word, size padded to the
// alignment and at least the header size.
func sizeAlign(layout Layout) (uint64, uint64) {
	l := layout.AlignTo(format.WordSize).PadToAlign()
	return max(l.Size, format.RegionHeaderSize), l.Align
}

// Compile-time interface check
var _ Allocator = (*LinkedListAllocator)(nil)
