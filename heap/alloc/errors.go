package alloc

import "github.com/cockroachdb/errors"

var (
	// ErrOutOfMemory indicates no free region, block, or cursor space can
	// satisfy the request.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrBadLayout indicates an alignment that is not a power of two or a
	// size that overflows when aligned.
	ErrBadLayout = errors.New("alloc: invalid layout")

	// ErrBadRegion indicates a heap region that is misaligned, too small to
	// hold a free-region header, or wraps the address space.
	ErrBadRegion = errors.New("alloc: invalid heap region")

	// ErrBadBlockSizes indicates a block-size configuration that is not an
	// increasing run of powers of two starting at or above the node size.
	ErrBadBlockSizes = errors.New("alloc: invalid block sizes")
)
