// Package format holds the low-level constants, alignment helpers, and word
// codec shared by the paging layer and the heap allocators. Everything that
// reinterprets raw memory as a typed value goes through this package.
package format

const (
	// PageSize is the size of one virtual page and one physical frame (4 KiB).
	PageSize = 4096

	// PageMask masks the offset-within-page bits of an address.
	PageMask = PageSize - 1

	// PageShift is log2(PageSize).
	PageShift = 12

	// WordSize is the machine word (pointer width) in bytes.
	WordSize = 8

	// WordAlignmentMask masks the misaligned bits of a word address.
	WordAlignmentMask = WordSize - 1

	// NodeHeaderSize is the size of an intrusive fixed-size-block node:
	//   0x00  next  (u64, 0 = end of list)
	NodeHeaderSize = WordSize

	// RegionHeaderSize is the size of an intrusive free-region node:
	//   0x00  size  (u64, bytes including this header)
	//   0x08  next  (u64, 0 = end of list)
	RegionHeaderSize = 2 * WordSize

	// RegionSizeOffset is the offset of the size field inside a region header.
	RegionSizeOffset = 0

	// RegionNextOffset is the offset of the next field inside a region header.
	RegionNextOffset = WordSize

	// NilAddr terminates intrusive lists. Address zero is never part of a heap.
	NilAddr = 0
)

const (
	// DefaultHeapStart is the virtual address the kernel heap is mapped at.
	DefaultHeapStart = 0x_4444_4444_0000

	// DefaultHeapSize is the size of the kernel heap (100 KiB).
	DefaultHeapSize = 100 * 1024
)

const (
	// PageTableEntries is the number of 8-byte entries in one page-table frame.
	PageTableEntries = PageSize / WordSize

	// PageTableLevels is the depth of the page-table tree (PML4 → PT).
	PageTableLevels = 4

	// PageTableIndexBits is the number of virtual-address bits consumed per level.
	PageTableIndexBits = 9

	// PhysAddrMask selects bits 12..51 of a page-table entry.
	PhysAddrMask = 0x000F_FFFF_FFFF_F000
)
