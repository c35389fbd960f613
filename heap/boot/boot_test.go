package boot

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kheap/heap"
	"github.com/joshuapare/kheap/heap/alloc"
	"github.com/joshuapare/kheap/heap/paging"
	"github.com/joshuapare/kheap/internal/format"
)

func TestNew_Defaults(t *testing.T) {
	m, err := New(Options{})
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, uint64(DefaultPhysicalMemory), m.Phys.Size())
	assert.Equal(t, heap.DefaultConfig(), m.Heap.Config())
	assert.Equal(t, 25, m.Heap.Mapped())

	addr, err := m.Heap.Alloc(alloc.MustLayout(8, 8))
	require.NoError(t, err)
	pa, ok := m.Pages.Translate(paging.VirtAddr(addr))
	require.True(t, ok)
	assert.NotZero(t, pa, "frame 0 is reserved")
}

func TestNew_TooLittleMemory(t *testing.T) {
	// Eight frames: one reserved, one root table, three intermediate
	// tables leave three frames for 25 heap pages.
	m, err := New(Options{PhysicalMemory: 8 * format.PageSize})
	require.True(t, errors.Is(err, paging.ErrFrameAllocationFailed), "got %v", err)
	require.NotNil(t, m)
	defer m.Close()

	assert.Equal(t, 3, m.Heap.Mapped())
	_, err = m.Heap.Alloc(alloc.MustLayout(8, 8))
	assert.True(t, errors.Is(err, heap.ErrInitFailed))
}

func TestNew_BadConfig(t *testing.T) {
	_, err := New(Options{Heap: heap.Config{Start: 0x1000, Size: 10}})
	assert.True(t, errors.Is(err, heap.ErrBadRegion))
}

func TestNewMemoryMap(t *testing.T) {
	mm := NewMemoryMap(16 * format.PageSize)
	require.Len(t, mm, 2)
	assert.Equal(t, paging.RegionReserved, mm[0].Type)
	assert.Equal(t, uint64(15), mm.UsableFrames())
}

func TestNew_PhysicalMemoryRoundedToPage(t *testing.T) {
	m, err := New(Options{PhysicalMemory: 200*format.PageSize + 1})
	require.NoError(t, err)
	defer m.Close()
	assert.Equal(t, uint64(201*format.PageSize), m.Phys.Size())
}
