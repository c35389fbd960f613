package alloc

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/joshuapare/kheap/internal/format"
)

// BlockSizeConfig defines the block sizes of a FixedSizeBlockAllocator: every
// power of two from Min to Max inclusive.
type BlockSizeConfig struct {
	// Name for this configuration (for benchmarking and the CLI)
	Name string

	// Min is the smallest block size. It must hold a free-list node.
	Min uint64

	// Max is the largest block size. Larger requests go to the fallback.
	Max uint64
}

// Predefined configurations.
var (
	// ConfigDefault: 8..2048, nine classes.
	ConfigDefault = BlockSizeConfig{Name: "Default", Min: 8, Max: 2048}

	// ConfigCompact: 8..256, six classes. Anything above 256 bytes is
	// carved by the free list, which keeps class pools from hoarding
	// medium-sized blocks in small heaps.
	ConfigCompact = BlockSizeConfig{Name: "Compact", Min: 8, Max: 256}

	// ConfigPage: 16..4096, nine classes, up to one page.
	ConfigPage = BlockSizeConfig{Name: "Page", Min: 16, Max: 4096}

	// DefaultConfig is used when no configuration is given.
	DefaultConfig = ConfigDefault
)

// blockSizeTable holds the computed block sizes.
type blockSizeTable struct {
	config BlockSizeConfig
	sizes  []uint64 // strictly increasing powers of two
}

// newBlockSizeTable validates config and computes its block sizes.
func newBlockSizeTable(config BlockSizeConfig) (*blockSizeTable, error) {
	switch {
	case !format.IsPowerOfTwo(config.Min) || !format.IsPowerOfTwo(config.Max):
		return nil, errors.Wrapf(ErrBadBlockSizes, "%s: bounds %d..%d must be powers of two", config.Name, config.Min, config.Max)
	case config.Min < format.NodeHeaderSize:
		return nil, errors.Wrapf(ErrBadBlockSizes, "%s: min %d cannot hold a %d-byte node", config.Name, config.Min, format.NodeHeaderSize)
	case config.Min > config.Max:
		return nil, errors.Wrapf(ErrBadBlockSizes, "%s: min %d exceeds max %d", config.Name, config.Min, config.Max)
	}

	table := &blockSizeTable{config: config}
	for size := config.Min; size <= config.Max; size <<= 1 {
		table.sizes = append(table.sizes, size)
	}
	return table, nil
}

// index returns the index of the smallest block size >= size, or false when
// size exceeds the largest block.
func (t *blockSizeTable) index(size uint64) (int, bool) {
	// Binary search for the first block that fits
	lo, hi := 0, len(t.sizes)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if size <= t.sizes[mid] {
			if mid == 0 || size > t.sizes[mid-1] {
				return mid, true
			}
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}

	// Larger than every block → fallback
	return 0, false
}

// String returns "8,16,...,2048".
func (t *blockSizeTable) String() string {
	parts := make([]string, len(t.sizes))
	for i, s := range t.sizes {
		parts[i] = strconv.FormatUint(s, 10)
	}
	return strings.Join(parts, ",")
}

// NumClasses returns the number of block sizes.
func (t *blockSizeTable) NumClasses() int {
	return len(t.sizes)
}
