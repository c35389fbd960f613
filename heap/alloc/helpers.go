package alloc

import (
	"fmt"
	"os"

	"github.com/joshuapare/kheap/internal/buf"
	"github.com/joshuapare/kheap/internal/format"
)

// Runtime debug flag for allocation-failure logging - controlled by the
// KHEAP_LOG_ALLOC env var.
var logAlloc = os.Getenv("KHEAP_LOG_ALLOC") != ""

// logOOM reports a failed allocation when KHEAP_LOG_ALLOC is set.
func logOOM(strategy string, layout Layout) {
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] %s: out of memory: size=%d align=%d\n",
			strategy, layout.Size, layout.Align)
	}
}

// alignUpChecked rounds addr up to align, reporting false if that wraps.
func alignUpChecked(addr Addr, align uint64) (Addr, bool) {
	if _, ok := buf.AddOverflowSafe(addr, align-1); !ok {
		return 0, false
	}
	return format.AlignUp(addr, align), true
}

// ============================================================================
// Intrusive node accessors
// ============================================================================

// Region header at the start of every free region:
//
//	0x00  size (u64)
//	0x08  next (u64)
func regionSize(mem Memory, r Addr) uint64 {
	return mem.ReadWord(r + format.RegionSizeOffset)
}

func regionNext(mem Memory, r Addr) Addr {
	return mem.ReadWord(r + format.RegionNextOffset)
}

func putRegion(mem Memory, r Addr, size uint64, next Addr) {
	mem.WriteWord(r+format.RegionSizeOffset, size)
	mem.WriteWord(r+format.RegionNextOffset, next)
}

func setRegionNext(mem Memory, r, next Addr) {
	mem.WriteWord(r+format.RegionNextOffset, next)
}

// Block node at the start of every free fixed-size block:
//
//	0x00  next (u64)
func blockNext(mem Memory, b Addr) Addr {
	return mem.ReadWord(b)
}

func putBlock(mem Memory, b, next Addr) {
	mem.WriteWord(b, next)
}
