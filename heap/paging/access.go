package paging

import (
	"github.com/joshuapare/kheap/internal/format"
)

// Memory access through the page table. Word accessors back the heap
// allocators' intrusive nodes; ReadAt/WriteAt back allocation payloads.

// ReadWord reads the little-endian word at virtual address a. An access to
// an unmapped page panics with *PageFaultError.
func (pt *PageTable) ReadWord(a uint64) uint64 {
	if a&format.WordAlignmentMask != 0 {
		var w [format.WordSize]byte
		if _, err := pt.ReadAt(w[:], int64(a)); err != nil {
			panic(err)
		}
		return format.ReadU64(w[:], 0)
	}
	b := pt.mustWord(VirtAddr(a), false)
	return format.ReadU64(b, 0)
}

// WriteWord writes v as a little-endian word at virtual address a. An
// access to an unmapped page panics with *PageFaultError.
func (pt *PageTable) WriteWord(a uint64, v uint64) {
	if a&format.WordAlignmentMask != 0 {
		var w [format.WordSize]byte
		format.PutU64(w[:], 0, v)
		if _, err := pt.WriteAt(w[:], int64(a)); err != nil {
			panic(err)
		}
		return
	}
	b := pt.mustWord(VirtAddr(a), true)
	format.PutU64(b, 0, v)
}

// ReadAt copies len(p) bytes starting at virtual address off into p,
// crossing page boundaries as needed.
func (pt *PageTable) ReadAt(p []byte, off int64) (int, error) {
	return pt.copyAt(p, VirtAddr(off), false)
}

// WriteAt copies p to virtual memory starting at address off.
func (pt *PageTable) WriteAt(p []byte, off int64) (int, error) {
	return pt.copyAt(p, VirtAddr(off), true)
}

func (pt *PageTable) copyAt(p []byte, a VirtAddr, write bool) (int, error) {
	n := 0
	for n < len(p) {
		cur := a + VirtAddr(n)
		chunk := min(len(p)-n, int(format.PageSize-cur.PageOffset()))
		b, err := pt.bytes(cur, uint64(chunk), write)
		if err != nil {
			return n, err
		}
		if write {
			copy(b, p[n:n+chunk])
		} else {
			copy(p[n:n+chunk], b)
		}
		n += chunk
	}
	return n, nil
}

func (pt *PageTable) mustWord(a VirtAddr, write bool) []byte {
	b, err := pt.bytes(a, format.WordSize, write)
	if err != nil {
		panic(err)
	}
	return b
}

// bytes returns the physical bytes backing [a, a+n). The range must not
// cross a page boundary.
func (pt *PageTable) bytes(a VirtAddr, n uint64, write bool) ([]byte, error) {
	frame, flags, ok := pt.lookup(PageContaining(a))
	if !ok || (write && !flags.Contains(FlagWritable)) {
		return nil, &PageFaultError{Addr: a, Write: write}
	}
	return pt.phys.Slice(uint64(frame.Start)+a.PageOffset(), n)
}
