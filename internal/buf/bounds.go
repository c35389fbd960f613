// Package buf contains overflow-checked address arithmetic used where a
// wrapped address would silently corrupt the heap.
package buf

import (
	"math"

	"github.com/cockroachdb/errors"
)

var (
	// ErrOverflow indicates address arithmetic wrapped around.
	ErrOverflow = errors.New("buf: address overflow")
	// ErrOutOfBounds indicates a range reaching outside its container.
	ErrOutOfBounds = errors.New("buf: range out of bounds")
)

// AddOverflowSafe adds a and b, returning ok = false when the sum would wrap.
func AddOverflowSafe(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

// SubUnderflowSafe subtracts b from a, returning ok = false when b > a.
func SubUnderflowSafe(a, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

// CheckRange validates that [off, off+n) fits inside a container of size
// limit. Returns the end offset if valid.
//
//	end, err := buf.CheckRange(uint64(len(data)), off, 8)
//	if err != nil {
//	    return fmt.Errorf("word: %w", err)
//	}
func CheckRange(limit, off, n uint64) (uint64, error) {
	end, ok := AddOverflowSafe(off, n)
	if !ok {
		return 0, errors.Wrapf(ErrOverflow, "offset=%d len=%d", off, n)
	}
	if end > limit {
		return 0, errors.Wrapf(ErrOutOfBounds, "end=%d limit=%d", end, limit)
	}
	return end, nil
}
