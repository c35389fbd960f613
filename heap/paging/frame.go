package paging

import (
	"github.com/joshuapare/kheap/internal/format"
)

// FrameAllocator yields unused physical frames.
type FrameAllocator interface {
	// AllocateFrame returns one unused frame, or false when none remain.
	AllocateFrame() (Frame, bool)
}

// RegionType classifies a region of the boot memory map.
type RegionType uint8

const (
	RegionUsable RegionType = iota
	RegionReserved
	RegionKernel
	RegionBootloader
)

func (t RegionType) String() string {
	switch t {
	case RegionUsable:
		return "usable"
	case RegionReserved:
		return "reserved"
	case RegionKernel:
		return "kernel"
	case RegionBootloader:
		return "bootloader"
	default:
		return "unknown"
	}
}

// MemoryRegion is one entry of the boot memory map: [Start, End).
type MemoryRegion struct {
	Start PhysAddr
	End   PhysAddr
	Type  RegionType
}

// MemoryMap is the physical memory layout reported at boot.
type MemoryMap []MemoryRegion

// UsableFrames counts the frames a BootInfoFrameAllocator can hand out.
func (m MemoryMap) UsableFrames() uint64 {
	var n uint64
	for _, r := range m {
		if r.Type != RegionUsable {
			continue
		}
		start := format.AlignUp(uint64(r.Start), format.PageSize)
		if uint64(r.End) > start {
			n += (uint64(r.End) - start) / format.PageSize
		}
	}
	return n
}

// BootInfoFrameAllocator hands out the frames of the usable regions of a
// memory map, in map order, each exactly once. Frames are never returned.
//
// The memory map must describe memory that is really unused: every frame it
// yields is assumed free.
type BootInfoFrameAllocator struct {
	memoryMap MemoryMap
	region    int      // index of the region being consumed
	next      PhysAddr // next candidate frame inside that region
	allocated uint64
}

// NewBootInfoFrameAllocator creates a frame allocator over memoryMap.
func NewBootInfoFrameAllocator(memoryMap MemoryMap) *BootInfoFrameAllocator {
	return &BootInfoFrameAllocator{memoryMap: memoryMap}
}

// AllocateFrame returns the next usable frame.
func (a *BootInfoFrameAllocator) AllocateFrame() (Frame, bool) {
	for a.region < len(a.memoryMap) {
		r := a.memoryMap[a.region]
		if r.Type != RegionUsable {
			a.region++
			a.next = 0
			continue
		}

		start := PhysAddr(format.AlignUp(uint64(r.Start), format.PageSize))
		if a.next < start {
			a.next = start
		}
		if uint64(a.next)+format.PageSize <= uint64(r.End) {
			f := Frame{Start: a.next}
			a.next += format.PageSize
			a.allocated++
			return f, true
		}

		a.region++
		a.next = 0
	}
	return Frame{}, false
}

// Allocated returns the number of frames handed out so far.
func (a *BootInfoFrameAllocator) Allocated() uint64 {
	return a.allocated
}
