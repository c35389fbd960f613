package paging

import (
	"github.com/cockroachdb/errors"

	"github.com/joshuapare/kheap/internal/format"
	"github.com/joshuapare/kheap/internal/physmem"
)

// Mapper establishes virtual-to-physical translations one page at a time.
type Mapper interface {
	// MapTo maps page to frame with the given flags. Intermediate tables
	// that do not exist yet are allocated from frames.
	MapTo(page Page, frame Frame, flags Flags, frames FrameAllocator) error
}

// parentFlags are set on every intermediate entry created by MapTo.
const parentFlags = FlagPresent | FlagWritable

// PageTable is a four-level page table whose tables are physical frames.
type PageTable struct {
	phys *physmem.Memory
	root Frame // PML4
}

// NewPageTable creates an empty page table. The PML4 frame comes from frames.
func NewPageTable(phys *physmem.Memory, frames FrameAllocator) (*PageTable, error) {
	root, ok := frames.AllocateFrame()
	if !ok {
		return nil, errors.Wrap(ErrFrameAllocationFailed, "paging: level 4 table")
	}
	pt := &PageTable{phys: phys, root: root}
	if err := pt.zeroFrame(root); err != nil {
		return nil, err
	}
	return pt, nil
}

// Root returns the frame holding the level 4 table.
func (pt *PageTable) Root() Frame {
	return pt.root
}

// MapTo maps page to frame. It fails with ErrPageAlreadyMapped when page
// already has a translation and with ErrFrameAllocationFailed when an
// intermediate table cannot be allocated. A failure leaves previously
// created intermediate tables in place.
func (pt *PageTable) MapTo(page Page, frame Frame, flags Flags, frames FrameAllocator) error {
	table := pt.root
	for level := format.PageTableLevels; level > 1; level-- {
		next, err := pt.nextTableCreate(table, page.Start.tableIndex(level), frames)
		if err != nil {
			return errors.Wrapf(err, "map %s: level %d", page, level)
		}
		table = next
	}

	idx := page.Start.tableIndex(1)
	entry, err := pt.entry(table, idx)
	if err != nil {
		return err
	}
	if entry&uint64(FlagPresent) != 0 {
		return errors.Wrapf(ErrPageAlreadyMapped, "map %s: mapped to %s", page, FrameContaining(PhysAddr(entry&format.PhysAddrMask)))
	}
	if _, err := pt.phys.Frame(uint64(frame.Start)); err != nil {
		return errors.Wrapf(err, "map %s", page)
	}
	return pt.setEntry(table, idx, uint64(frame.Start)|uint64(flags))
}

// Translate returns the physical address a maps to.
func (pt *PageTable) Translate(a VirtAddr) (PhysAddr, bool) {
	frame, _, ok := pt.lookup(PageContaining(a))
	if !ok {
		return 0, false
	}
	return frame.Start + PhysAddr(a.PageOffset()), true
}

// TranslatePage returns the frame and flags page is mapped to.
func (pt *PageTable) TranslatePage(page Page) (Frame, Flags, bool) {
	return pt.lookup(page)
}

// Mappings calls fn for every mapped page in ascending virtual order until
// fn returns false.
func (pt *PageTable) Mappings(fn func(Page, Frame, Flags) bool) {
	pt.walk(pt.root, format.PageTableLevels, 0, fn)
}

func (pt *PageTable) walk(table Frame, level int, base uint64, fn func(Page, Frame, Flags) bool) bool {
	shift := format.PageShift + format.PageTableIndexBits*uint(level-1)
	for idx := uint64(0); idx < format.PageTableEntries; idx++ {
		entry, err := pt.entry(table, idx)
		if err != nil || entry&uint64(FlagPresent) == 0 {
			continue
		}
		va := canonical(base | idx<<shift)
		next := FrameContaining(PhysAddr(entry & format.PhysAddrMask))
		if level == 1 {
			if !fn(Page{Start: VirtAddr(va)}, next, Flags(entry)&flagsMask) {
				return false
			}
			continue
		}
		if entry&uint64(FlagHugePage) != 0 {
			continue
		}
		if !pt.walk(next, level-1, va, fn) {
			return false
		}
	}
	return true
}

// canonical sign-extends bit 47 into the upper 16 bits.
func canonical(va uint64) uint64 {
	if va&(1<<47) != 0 {
		return va | 0xFFFF_0000_0000_0000
	}
	return va
}

func (pt *PageTable) lookup(page Page) (Frame, Flags, bool) {
	table := pt.root
	for level := format.PageTableLevels; level > 1; level-- {
		entry, err := pt.entry(table, page.Start.tableIndex(level))
		if err != nil || entry&uint64(FlagPresent) == 0 || entry&uint64(FlagHugePage) != 0 {
			return Frame{}, 0, false
		}
		table = FrameContaining(PhysAddr(entry & format.PhysAddrMask))
	}
	entry, err := pt.entry(table, page.Start.tableIndex(1))
	if err != nil || entry&uint64(FlagPresent) == 0 {
		return Frame{}, 0, false
	}
	return FrameContaining(PhysAddr(entry & format.PhysAddrMask)), Flags(entry) & flagsMask, true
}

// nextTableCreate returns the table referenced by table[idx], allocating and
// linking a zeroed one if the entry is empty.
func (pt *PageTable) nextTableCreate(table Frame, idx uint64, frames FrameAllocator) (Frame, error) {
	entry, err := pt.entry(table, idx)
	if err != nil {
		return Frame{}, err
	}
	if entry&uint64(FlagPresent) != 0 {
		if entry&uint64(FlagHugePage) != 0 {
			return Frame{}, ErrParentEntryHugePage
		}
		return FrameContaining(PhysAddr(entry & format.PhysAddrMask)), nil
	}

	f, ok := frames.AllocateFrame()
	if !ok {
		return Frame{}, ErrFrameAllocationFailed
	}
	if err := pt.zeroFrame(f); err != nil {
		return Frame{}, err
	}
	if err := pt.setEntry(table, idx, uint64(f.Start)|uint64(parentFlags)); err != nil {
		return Frame{}, err
	}
	return f, nil
}

func (pt *PageTable) entry(table Frame, idx uint64) (uint64, error) {
	b, err := pt.phys.Frame(uint64(table.Start))
	if err != nil {
		return 0, err
	}
	return format.ReadU64(b, int(idx*format.WordSize)), nil
}

func (pt *PageTable) setEntry(table Frame, idx, v uint64) error {
	b, err := pt.phys.Frame(uint64(table.Start))
	if err != nil {
		return err
	}
	format.PutU64(b, int(idx*format.WordSize), v)
	return nil
}

func (pt *PageTable) zeroFrame(f Frame) error {
	b, err := pt.phys.Frame(uint64(f.Start))
	if err != nil {
		return errors.Wrapf(err, "paging: zero %s", f)
	}
	clear(b)
	return nil
}

// Compile-time interface check
var _ Mapper = (*PageTable)(nil)
