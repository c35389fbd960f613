// Package alloc provides the kernel heap allocation strategies.
//
// # Overview
//
// Three interchangeable strategies implement one Allocator contract:
//
//   - Init(mem, start, size): take ownership of a mapped region
//   - Alloc(layout): return an address satisfying size and alignment
//   - Dealloc(addr, layout): give a block back
//
// None of them allocate memory for their own bookkeeping. Free-list nodes
// are written into the free memory itself (intrusive nodes), through the
// Memory interface, which is the only place raw memory is reinterpreted.
//
// # Implementations
//
// BumpAllocator: monotonic cursor
//
//   - O(1) allocation and deallocation
//   - Memory is reclaimed only when every allocation has been freed
//
// LinkedListAllocator: first-fit over intrusive free regions
//
//   - Regions are kept in LIFO order (most recently freed first)
//   - Leftover space is split off as a new region when it can hold a header
//   - Adjacent free regions are never merged
//
// FixedSizeBlockAllocator: segregated power-of-two block lists
//
//   - O(1) pop/push for requests that fit a block size
//   - Empty lists are refilled one block at a time from an embedded
//     LinkedListAllocator, which also serves oversized requests
//   - Blocks never flow back to the fallback allocator
//
// # Usage Example
//
//	fa, err := alloc.NewFixedSizeBlock(nil)
//	if err != nil {
//	    return err
//	}
//	if err := fa.Init(mem, heapStart, heapSize); err != nil {
//	    return err
//	}
//
//	layout := alloc.MustLayout(24, 8)
//	addr, err := fa.Alloc(layout)
//	if err != nil {
//	    return err // alloc.ErrOutOfMemory
//	}
//	// ... use [addr, addr+24) ...
//	fa.Dealloc(addr, layout)
//
// # Block Sizes
//
// The default table holds nine classes:
//
//	8, 16, 32, 64, 128, 256, 512, 1024, 2048 bytes
//
// A request maps to the smallest class >= max(size, align). Anything larger
// than 2048 goes straight to the fallback allocator.
//
// # Contract
//
// Dealloc must be called with the exact layout used for Alloc. Init must be
// called exactly once, on a region that is mapped and owned by the caller.
// Violations are not detected.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. The heap package serialises all
// calls behind a single lock.
package alloc
