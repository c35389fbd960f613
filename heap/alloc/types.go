package alloc

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/joshuapare/kheap/internal/format"
)

// Addr is a virtual address inside the heap region.
type Addr = uint64

// Memory is word-granular access to the mapped heap region. Intrusive list
// nodes are read and written through it and nothing else.
type Memory interface {
	// ReadWord reads the 8-byte little-endian word at addr.
	ReadWord(addr Addr) uint64

	// WriteWord writes v as an 8-byte little-endian word at addr.
	WriteWord(addr Addr, v uint64)
}

// Layout is the size and alignment of an allocation request.
type Layout struct {
	Size  uint64
	Align uint64
}

// NewLayout validates and returns a layout. Align must be a power of two and
// size rounded up to align must not overflow.
func NewLayout(size, align uint64) (Layout, error) {
	if !format.IsPowerOfTwo(align) {
		return Layout{}, errors.Wrapf(ErrBadLayout, "align %d is not a power of two", align)
	}
	if size > math.MaxInt64-(align-1) {
		return Layout{}, errors.Wrapf(ErrBadLayout, "size %d overflows when aligned to %d", size, align)
	}
	return Layout{Size: size, Align: align}, nil
}

// MustLayout is NewLayout for constant layouts. It panics on an invalid one.
func MustLayout(size, align uint64) Layout {
	l, err := NewLayout(size, align)
	if err != nil {
		panic(err)
	}
	return l
}

// AlignTo returns l with its alignment raised to at least align.
func (l Layout) AlignTo(align uint64) Layout {
	return Layout{Size: l.Size, Align: max(l.Align, align)}
}

// PadToAlign returns l with its size rounded up to a multiple of its
// alignment.
func (l Layout) PadToAlign() Layout {
	return Layout{Size: format.AlignUp(l.Size, l.Align), Align: l.Align}
}

// Allocator is the contract shared by every heap strategy.
//
// Implementations:
//   - BumpAllocator: monotonic cursor, bulk reclamation
//   - LinkedListAllocator: first-fit over intrusive free regions
//   - FixedSizeBlockAllocator: segregated block lists with a free-list fallback
type Allocator interface {
	// Init hands the mapped region [start, start+size) to the allocator.
	// It must be called exactly once, before any Alloc.
	Init(mem Memory, start Addr, size uint64) error

	// Alloc returns the address of a block satisfying layout, or
	// ErrOutOfMemory.
	Alloc(layout Layout) (Addr, error)

	// Dealloc returns the block at addr. layout must equal the layout
	// passed to the Alloc that produced addr.
	Dealloc(addr Addr, layout Layout)
}

// FreeRegion is a free span owned by a LinkedListAllocator.
type FreeRegion struct {
	Start Addr
	Size  uint64
}

// End returns the first address past the region.
func (r FreeRegion) End() Addr {
	return r.Start + r.Size
}
