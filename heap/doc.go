// Package heap is the kernel heap: a fixed virtual region backed by mapped
// frames and served by exactly one allocation strategy behind a lock.
//
// Lifecycle:
//
//	h, err := heap.New(heap.DefaultConfig())
//	err = h.Init(pageTable, frameAllocator) // map every page, then init the strategy
//	addr, err := h.Alloc(alloc.MustLayout(64, 8))
//	h.Dealloc(addr, alloc.MustLayout(64, 8))
//
// Init maps the pages containing [Start, Start+Size) one at a time, each to a
// fresh frame with Present|Writable. It is not transactional: if the frame
// source runs dry, pages mapped so far stay mapped and the heap is unusable
// for the rest of its life.
//
// One Heap may be registered as the process-wide instance with Register and
// fetched with Default.
//
// Strategies (see package alloc):
//   - StrategyBump: cursor allocation, reclaimed only when everything is freed
//   - StrategyLinkedList: first-fit intrusive free list, no coalescing
//   - StrategyFixedSizeBlock: power-of-two block lists with a free-list fallback
package heap
