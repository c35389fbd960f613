package heap

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/joshuapare/kheap/heap/alloc"
	"github.com/joshuapare/kheap/heap/paging"
)

// Backing is the address space a heap lives in: it maps pages during Init
// and afterwards serves the allocators' word accesses and payload copies.
// *paging.PageTable implements it.
type Backing interface {
	paging.Mapper
	alloc.Memory
	io.ReaderAt
	io.WriterAt
}

// MapRegion maps every page of r to a fresh frame from frames with
// Present|Writable, in ascending order. It returns the number of pages
// mapped before it stopped.
//
// Frame exhaustion returns paging.ErrFrameAllocationFailed; MapTo errors are
// returned as they are. Pages mapped before a failure are left mapped.
func MapRegion(r Region, m paging.Mapper, frames paging.FrameAllocator) (int, error) {
	const flags = paging.FlagPresent | paging.FlagWritable

	mapped := 0
	for page := range r.Pages().All {
		frame, ok := frames.AllocateFrame()
		if !ok {
			return mapped, errors.Wrapf(paging.ErrFrameAllocationFailed, "heap page %s", page)
		}
		if err := m.MapTo(page, frame, flags, frames); err != nil {
			return mapped, err
		}
		mapped++
	}
	return mapped, nil
}
