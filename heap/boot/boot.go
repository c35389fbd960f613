// Package boot assembles a simulated machine around a kernel heap: physical
// memory, a memory map with the first frame reserved, a boot-info frame
// allocator, an empty page table, and an initialized heap.
package boot

import (
	"github.com/cockroachdb/errors"

	"github.com/joshuapare/kheap/heap"
	"github.com/joshuapare/kheap/heap/paging"
	"github.com/joshuapare/kheap/internal/format"
	"github.com/joshuapare/kheap/internal/physmem"
)

// DefaultPhysicalMemory is enough RAM for the default heap plus its page
// tables with room to spare.
const DefaultPhysicalMemory = 1 << 20

// Options configures New.
type Options struct {
	// Heap is the heap configuration. Zero value means heap.DefaultConfig().
	Heap heap.Config

	// PhysicalMemory is the RAM size in bytes, rounded up to a page.
	// Zero means DefaultPhysicalMemory.
	PhysicalMemory uint64
}

// Machine is a booted simulated machine.
type Machine struct {
	Phys      *physmem.Memory
	MemoryMap paging.MemoryMap
	Frames    *paging.BootInfoFrameAllocator
	Pages     *paging.PageTable
	Heap      *heap.Heap
}

// New boots a machine: maps physical memory, builds the memory map and page
// table, and initializes the heap over it.
//
// If the heap fails to initialize the machine is still returned, with its
// partially mapped page table, alongside the error. Close it either way.
func New(opts Options) (*Machine, error) {
	cfg := opts.Heap
	if cfg == (heap.Config{}) {
		cfg = heap.DefaultConfig()
	}
	size := opts.PhysicalMemory
	if size == 0 {
		size = DefaultPhysicalMemory
	}
	size = format.AlignPage(size)

	h, err := heap.New(cfg)
	if err != nil {
		return nil, err
	}

	phys, err := physmem.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "boot: physical memory")
	}

	m := &Machine{
		Phys:      phys,
		MemoryMap: NewMemoryMap(phys.Size()),
		Heap:      h,
	}
	m.Frames = paging.NewBootInfoFrameAllocator(m.MemoryMap)

	m.Pages, err = paging.NewPageTable(phys, m.Frames)
	if err != nil {
		_ = phys.Close()
		return nil, errors.Wrap(err, "boot: page table")
	}

	heap.L.Debug("boot: machine ready", "ram", phys.Size(), "frames", m.MemoryMap.UsableFrames())
	if err := h.Init(m.Pages, m.Frames); err != nil {
		return m, errors.Wrap(err, "boot: heap")
	}
	return m, nil
}

// NewMemoryMap describes size bytes of RAM: the first frame is reserved
// (physical address zero is never handed out), the rest is usable.
func NewMemoryMap(size uint64) paging.MemoryMap {
	return paging.MemoryMap{
		{Start: 0, End: format.PageSize, Type: paging.RegionReserved},
		{Start: format.PageSize, End: paging.PhysAddr(size), Type: paging.RegionUsable},
	}
}

// Close releases physical memory. The machine's heap and page table must
// not be used afterwards.
func (m *Machine) Close() error {
	return m.Phys.Close()
}
