package paging

import (
	"fmt"

	"github.com/joshuapare/kheap/internal/format"
)

// VirtAddr is a virtual address.
type VirtAddr uint64

// PhysAddr is a physical address (offset into physical memory).
type PhysAddr uint64

func (a VirtAddr) String() string { return fmt.Sprintf("0x%x", uint64(a)) }
func (a PhysAddr) String() string { return fmt.Sprintf("0x%x", uint64(a)) }

// PageOffset returns the offset of a within its page.
func (a VirtAddr) PageOffset() uint64 {
	return uint64(a) & format.PageMask
}

// tableIndex returns the index into the page table at the given level
// (4 = PML4 ... 1 = PT).
func (a VirtAddr) tableIndex(level int) uint64 {
	shift := format.PageShift + format.PageTableIndexBits*uint(level-1)
	return (uint64(a) >> shift) & (format.PageTableEntries - 1)
}

// Page is a 4 KiB virtual page, identified by its start address.
type Page struct {
	Start VirtAddr
}

// PageContaining returns the page that contains a.
func PageContaining(a VirtAddr) Page {
	return Page{Start: VirtAddr(format.AlignDown(uint64(a), format.PageSize))}
}

// Next returns the page following p.
func (p Page) Next() Page {
	return Page{Start: p.Start + format.PageSize}
}

func (p Page) String() string { return "Page[" + p.Start.String() + "]" }

// Frame is a 4 KiB physical frame, identified by its start address.
type Frame struct {
	Start PhysAddr
}

// FrameContaining returns the frame that contains a.
func FrameContaining(a PhysAddr) Frame {
	return Frame{Start: PhysAddr(format.AlignDown(uint64(a), format.PageSize))}
}

func (f Frame) String() string { return "Frame[" + f.Start.String() + "]" }

// PageRange is an inclusive range of pages [First, Last].
type PageRange struct {
	First Page
	Last  Page
}

// PageRangeInclusive returns the range of pages from first to last, both
// included.
func PageRangeInclusive(first, last Page) PageRange {
	return PageRange{First: first, Last: last}
}

// Len returns the number of pages in the range.
func (r PageRange) Len() int {
	if r.Last.Start < r.First.Start {
		return 0
	}
	return int((r.Last.Start-r.First.Start)/format.PageSize) + 1
}

// All yields every page in the range in ascending order.
func (r PageRange) All(yield func(Page) bool) {
	if r.Last.Start < r.First.Start {
		return
	}
	for p := r.First; ; p = p.Next() {
		if !yield(p) || p == r.Last {
			return
		}
	}
}
