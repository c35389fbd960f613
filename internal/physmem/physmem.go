// Package physmem provides the machine's physical memory: one contiguous,
// page-aligned block addressed by physical address (offset from zero).
// Frames handed out by the paging layer are slices of this block.
package physmem

import (
	"github.com/cockroachdb/errors"

	"github.com/joshuapare/kheap/internal/buf"
	"github.com/joshuapare/kheap/internal/format"
)

var (
	// ErrBadSize indicates a memory size that is zero or not page aligned.
	ErrBadSize = errors.New("physmem: size must be a non-zero multiple of the page size")
	// ErrClosed indicates use of memory after Close.
	ErrClosed = errors.New("physmem: memory released")
)

// Memory is a block of simulated physical RAM.
//
// NOT thread-safe. The paging layer serialises access through the heap lock.
type Memory struct {
	data    []byte
	release func() error
}

// New maps size bytes of zeroed physical memory.
func New(size uint64) (*Memory, error) {
	if size == 0 || !format.IsAligned(size, format.PageSize) {
		return nil, errors.Wrapf(ErrBadSize, "size=%d", size)
	}
	if size > uint64(^uint(0)>>1) {
		return nil, errors.Newf("physmem: size too large to map (%d bytes)", size)
	}
	data, release, err := mapAnon(int(size))
	if err != nil {
		return nil, errors.Wrap(err, "physmem: map")
	}
	return &Memory{data: data, release: release}, nil
}

// Size returns the amount of physical memory in bytes.
func (m *Memory) Size() uint64 {
	return uint64(len(m.data))
}

// Frames returns the number of page-sized frames in memory.
func (m *Memory) Frames() uint64 {
	return m.Size() / format.PageSize
}

// Slice returns the n bytes starting at physical address pa.
func (m *Memory) Slice(pa, n uint64) ([]byte, error) {
	if m.data == nil {
		return nil, ErrClosed
	}
	end, err := buf.CheckRange(m.Size(), pa, n)
	if err != nil {
		return nil, errors.Wrapf(err, "physmem: pa=0x%x", pa)
	}
	return m.data[pa:end:end], nil
}

// Frame returns the page-sized frame starting at the page-aligned address pa.
func (m *Memory) Frame(pa uint64) ([]byte, error) {
	if !format.IsAligned(pa, format.PageSize) {
		return nil, errors.Wrapf(format.ErrMisaligned, "physmem: frame pa=0x%x", pa)
	}
	return m.Slice(pa, format.PageSize)
}

// Close releases the backing memory. Calling Close twice is a no-op.
func (m *Memory) Close() error {
	if m.data == nil {
		return nil
	}
	m.data = nil
	return m.release()
}
