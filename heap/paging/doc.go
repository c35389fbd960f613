// Package paging is the memory-mapping layer the kernel heap is built on.
//
// # Overview
//
// It supplies the two capabilities the heap consumes:
//
//   - FrameAllocator: yields one unused physical frame per call, or reports
//     exhaustion. BootInfoFrameAllocator walks the usable regions of the
//     boot memory map in order.
//   - Mapper: establishes a translation for one 4 KiB page at a time.
//     PageTable is a four-level table (PML4, PDPT, PD, PT) whose tables live
//     in physical frames, exactly like the hardware structure.
//
// PageTable also performs address translation for reads and writes, which
// is how the heap allocators reach the memory they manage: every intrusive
// free-list node is a word read or written at a virtual address.
//
// # Address Layout
//
// A virtual address is split into four 9-bit table indexes and a 12-bit
// page offset:
//
//	47      39 38      30 29      21 20      12 11         0
//	[  PML4  ] [  PDPT  ] [   PD   ] [   PT   ] [  offset  ]
//
// # Thread Safety
//
// PageTable is not thread-safe. The heap maps pages once during
// initialization and afterwards only reads translations.
package paging
