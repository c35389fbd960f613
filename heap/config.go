package heap

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/joshuapare/kheap/heap/alloc"
	"github.com/joshuapare/kheap/internal/format"
)

// Strategy selects the allocator that serves a heap.
type Strategy int

const (
	// StrategyBump hands out memory from a cursor.
	StrategyBump Strategy = iota

	// StrategyLinkedList is first-fit over an intrusive free list.
	StrategyLinkedList

	// StrategyFixedSizeBlock keeps per-size block lists over a free-list fallback.
	StrategyFixedSizeBlock
)

var strategyNames = map[Strategy]string{
	StrategyBump:           "bump",
	StrategyLinkedList:     "linked-list",
	StrategyFixedSizeBlock: "fixed-size-block",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Strategies returns every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{StrategyBump, StrategyLinkedList, StrategyFixedSizeBlock}
}

// ParseStrategy maps a name to a Strategy. Matching is case-insensitive and
// treats '-' and '_' alike; "free-list" and "fixed" are accepted aliases.
func ParseStrategy(name string) (Strategy, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	switch norm {
	case "bump":
		return StrategyBump, nil
	case "linked-list", "free-list", "freelist":
		return StrategyLinkedList, nil
	case "fixed-size-block", "fixed", "block":
		return StrategyFixedSizeBlock, nil
	}
	return 0, errors.Wrapf(ErrUnknownStrategy, "%q", name)
}

// Config describes a heap before it is mapped.
type Config struct {
	// Start is the first virtual address of the heap. Page aligned.
	Start uint64

	// Size is the heap size in bytes. Page aligned.
	Size uint64

	// Strategy selects the allocator.
	Strategy Strategy

	// BlockSizes configures StrategyFixedSizeBlock (nil for
	// alloc.DefaultConfig). Ignored by other strategies.
	BlockSizes *alloc.BlockSizeConfig
}

// DefaultConfig returns the standard kernel heap: 100 KiB at
// 0x4444_4444_0000 served by fixed-size blocks.
func DefaultConfig() Config {
	return Config{
		Start:    format.DefaultHeapStart,
		Size:     format.DefaultHeapSize,
		Strategy: StrategyFixedSizeBlock,
	}
}

// Region returns the configured heap region.
func (c Config) Region() Region {
	return Region{Start: c.Start, Size: c.Size}
}

// newAllocator builds the uninitialized allocator for c.Strategy.
func (c Config) newAllocator() (alloc.Allocator, error) {
	switch c.Strategy {
	case StrategyBump:
		return alloc.NewBump(), nil
	case StrategyLinkedList:
		return alloc.NewLinkedList(), nil
	case StrategyFixedSizeBlock:
		return alloc.NewFixedSizeBlock(c.BlockSizes)
	}
	return nil, errors.Wrapf(ErrUnknownStrategy, "%d", int(c.Strategy))
}
