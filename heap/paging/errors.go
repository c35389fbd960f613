package paging

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrFrameAllocationFailed indicates the frame allocator is exhausted.
	ErrFrameAllocationFailed = errors.New("paging: frame allocation failed")

	// ErrPageAlreadyMapped indicates the page already has a translation.
	ErrPageAlreadyMapped = errors.New("paging: page already mapped")

	// ErrParentEntryHugePage indicates a parent table entry maps a huge page,
	// so no lower-level table exists for the requested page.
	ErrParentEntryHugePage = errors.New("paging: parent entry is a huge page")

	// ErrPageFault indicates an access to a virtual address with no translation.
	ErrPageFault = errors.New("paging: page fault")
)

// PageFaultError describes an access to an unmapped virtual address.
// Word accesses raise it with panic, mirroring a CPU exception; byte-range
// accesses return it.
type PageFaultError struct {
	Addr  VirtAddr
	Write bool
}

func (e *PageFaultError) Error() string {
	op := "read"
	if e.Write {
		op = "write"
	}
	return fmt.Sprintf("paging: page fault on %s at %s", op, e.Addr)
}

// Unwrap lets errors.Is match ErrPageFault.
func (e *PageFaultError) Unwrap() error {
	return ErrPageFault
}
