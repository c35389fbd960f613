package heap

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/joshuapare/kheap/heap/paging"
	"github.com/joshuapare/kheap/internal/buf"
	"github.com/joshuapare/kheap/internal/format"
)

// Region is the virtual address range reserved for the heap. It is fixed
// for the heap's lifetime.
type Region struct {
	Start uint64
	Size  uint64
}

// End returns the first address past the region.
func (r Region) End() uint64 {
	return r.Start + r.Size
}

// Validate checks that the region is non-empty, starts above zero, has page
// aligned bounds, and does not wrap.
func (r Region) Validate() error {
	if r.Start == 0 || r.Size == 0 {
		return errors.Wrapf(ErrBadRegion, "%s is empty or starts at zero", r)
	}
	if !format.IsAligned(r.Start, format.PageSize) || !format.IsAligned(r.Size, format.PageSize) {
		return errors.Wrapf(ErrBadRegion, "%s is not page aligned", r)
	}
	if _, ok := buf.AddOverflowSafe(r.Start, r.Size); !ok {
		return errors.Wrapf(ErrBadRegion, "%s wraps the address space", r)
	}
	return nil
}

// Pages returns the pages containing Start through End-1 inclusive.
func (r Region) Pages() paging.PageRange {
	first := paging.PageContaining(paging.VirtAddr(r.Start))
	last := paging.PageContaining(paging.VirtAddr(r.End() - 1))
	return paging.PageRangeInclusive(first, last)
}

func (r Region) String() string {
	return fmt.Sprintf("[0x%x, 0x%x)", r.Start, r.End())
}
