package alloc

import (
	"github.com/joshuapare/kheap/internal/format"
)

// FixedSizeBlockAllocator keeps one intrusive free list per block size and
// falls back to a LinkedListAllocator for refills and oversized requests.
//
// Key characteristics:
//   - A request uses the smallest block size >= max(size, align); since
//     block sizes are powers of two, a block is aligned to its own size
//   - Steady-state alloc and dealloc are a list pop or push: O(1)
//   - An empty list is refilled with exactly one block carved from the
//     fallback; existing blocks are never split
//   - Blocks never return to the fallback, so pools only grow
type FixedSizeBlockAllocator struct {
	mem      Memory
	table    *blockSizeTable
	heads    []Addr // per block size, format.NilAddr when empty
	fallback LinkedListAllocator
}

// NewFixedSizeBlock creates an uninitialized FixedSizeBlockAllocator.
//
// Parameters:
//   - config: Block size configuration (use nil for DefaultConfig)
func NewFixedSizeBlock(config *BlockSizeConfig) (*FixedSizeBlockAllocator, error) {
	if config == nil {
		config = &DefaultConfig
	}
	table, err := newBlockSizeTable(*config)
	if err != nil {
		return nil, err
	}
	return &FixedSizeBlockAllocator{
		table: table,
		heads: make([]Addr, table.NumClasses()),
	}, nil
}

// Init hands the whole region to the fallback allocator. Block lists start
// empty and fill on demand.
func (fa *FixedSizeBlockAllocator) Init(mem Memory, start Addr, size uint64) error {
	fa.mem = mem
	clear(fa.heads)
	return fa.fallback.Init(mem, start, size)
}

// Alloc pops a block of the matching size, refills from the fallback when
// the list is empty, or forwards oversized requests unchanged.
func (fa *FixedSizeBlockAllocator) Alloc(layout Layout) (Addr, error) {
	idx, ok := fa.listIndex(layout)
	if !ok {
		return fa.fallback.Alloc(layout)
	}

	if head := fa.heads[idx]; head != format.NilAddr {
		fa.heads[idx] = blockNext(fa.mem, head)
		return head, nil
	}

	// No free block of this size: carve exactly one.
	blockSize := fa.table.sizes[idx]
	return fa.fallback.Alloc(Layout{Size: blockSize, Align: blockSize})
}

// Dealloc pushes the block onto its list, or hands oversized blocks back to
// the fallback.
func (fa *FixedSizeBlockAllocator) Dealloc(addr Addr, layout Layout) {
	idx, ok := fa.listIndex(layout)
	if !ok {
		fa.fallback.Dealloc(addr, layout)
		return
	}
	putBlock(fa.mem, addr, fa.heads[idx])
	fa.heads[idx] = addr
}

// BlockSizes returns the block sizes in increasing order.
func (fa *FixedSizeBlockAllocator) BlockSizes() []uint64 {
	return append([]uint64(nil), fa.table.sizes...)
}

// ClassLen walks the free list of block size idx and returns its length.
func (fa *FixedSizeBlockAllocator) ClassLen(idx int) int {
	n := 0
	for b := fa.heads[idx]; b != format.NilAddr; b = blockNext(fa.mem, b) {
		n++
	}
	return n
}

// String returns the block size configuration, e.g. "Default [8,16,...,2048]".
func (fa *FixedSizeBlockAllocator) String() string {
	return fa.table.config.Name + " [" + fa.table.String() + "]"
}

// Regions returns the fallback allocator's free regions in list order.
func (fa *FixedSizeBlockAllocator) Regions() []FreeRegion {
	return fa.fallback.Regions()
}

// listIndex returns the block size index for layout.
func (fa *FixedSizeBlockAllocator) listIndex(layout Layout) (int, bool) {
	return fa.table.index(max(layout.Size, layout.Align))
}

// Compile-time interface check
var _ Allocator = (*FixedSizeBlockAllocator)(nil)
