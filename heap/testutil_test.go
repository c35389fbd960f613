package heap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kheap/heap/paging"
	"github.com/joshuapare/kheap/internal/format"
	"github.com/joshuapare/kheap/internal/physmem"
)

// testFrames is enough physical memory for the default heap and its tables.
const testFrames = 64

// newTestBacking returns an empty page table over numFrames frames of
// physical memory, frame 0 reserved.
func newTestBacking(t testing.TB, numFrames int) (*paging.PageTable, *paging.BootInfoFrameAllocator) {
	t.Helper()

	phys, err := physmem.New(uint64(numFrames) * format.PageSize)
	require.NoError(t, err)
	t.Cleanup(func() { _ = phys.Close() })

	frames := paging.NewBootInfoFrameAllocator(paging.MemoryMap{
		{Start: 0, End: format.PageSize, Type: paging.RegionReserved},
		{Start: format.PageSize, End: paging.PhysAddr(phys.Size()), Type: paging.RegionUsable},
	})
	pt, err := paging.NewPageTable(phys, frames)
	require.NoError(t, err)
	return pt, frames
}

// newTestHeap builds and initializes a heap with cfg.
func newTestHeap(t testing.TB, cfg Config) *Heap {
	t.Helper()
	h, err := New(cfg)
	require.NoError(t, err)
	pt, frames := newTestBacking(t, testFrames)
	require.NoError(t, h.Init(pt, frames))
	return h
}

// limitedFrames hands out at most n frames from inner.
type limitedFrames struct {
	inner paging.FrameAllocator
	n     int
}

func (l *limitedFrames) AllocateFrame() (paging.Frame, bool) {
	if l.n == 0 {
		return paging.Frame{}, false
	}
	l.n--
	return l.inner.AllocateFrame()
}

func configFor(s Strategy) Config {
	cfg := DefaultConfig()
	cfg.Strategy = s
	return cfg
}
