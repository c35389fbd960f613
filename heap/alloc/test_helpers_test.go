package alloc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kheap/internal/format"
)

// ============================================================================
// Memory Utilities
// ============================================================================

const (
	// testHeapStart is where test heaps begin. Page aligned, never zero.
	testHeapStart Addr = 0x10000

	// testHeapSize is the default size of a test heap.
	testHeapSize = 64 * 1024
)

// testMemory is a flat byte slice standing in for mapped heap pages.
type testMemory struct {
	base Addr
	data []byte
}

// newTestMemory creates size bytes of zeroed memory at testHeapStart.
func newTestMemory(t testing.TB, size int) *testMemory {
	t.Helper()
	return &testMemory{base: testHeapStart, data: make([]byte, size)}
}

func (m *testMemory) offset(addr Addr, n uint64) int {
	if addr < m.base || addr+n > m.base+uint64(len(m.data)) {
		panic(fmt.Sprintf("test memory: access [0x%x, 0x%x) outside heap", addr, addr+n))
	}
	return int(addr - m.base)
}

func (m *testMemory) ReadWord(addr Addr) uint64 {
	return format.ReadU64(m.data, m.offset(addr, format.WordSize))
}

func (m *testMemory) WriteWord(addr Addr, v uint64) {
	format.PutU64(m.data, m.offset(addr, format.WordSize), v)
}

func (m *testMemory) putU32(addr Addr, v uint32) {
	format.PutU32(m.data, m.offset(addr, 4), v)
}

func (m *testMemory) readU32(addr Addr) uint32 {
	return format.ReadU32(m.data, m.offset(addr, 4))
}

// fill writes a recognisable pattern derived from seed over [addr, addr+n).
func (m *testMemory) fill(addr Addr, n uint64, seed byte) {
	off := m.offset(addr, n)
	for i := range n {
		m.data[off+int(i)] = seed + byte(i)
	}
}

// checkPattern verifies the pattern written by fill.
func (m *testMemory) checkPattern(t testing.TB, addr Addr, n uint64, seed byte) {
	t.Helper()
	off := m.offset(addr, n)
	for i := range n {
		if m.data[off+int(i)] != seed+byte(i) {
			require.Failf(t, "pattern corrupted",
				"block 0x%x byte %d: got 0x%x want 0x%x", addr, i, m.data[off+int(i)], seed+byte(i))
		}
	}
}

// ============================================================================
// Allocator Utilities
// ============================================================================

// strategyFactory builds a fresh, uninitialized allocator.
type strategyFactory struct {
	name string
	new  func(t testing.TB) Allocator
}

var allStrategies = []strategyFactory{
	{"bump", func(testing.TB) Allocator { return NewBump() }},
	{"linked_list", func(testing.TB) Allocator { return NewLinkedList() }},
	{"fixed_size_block", func(t testing.TB) Allocator {
		fa, err := NewFixedSizeBlock(nil)
		require.NoError(t, err)
		return fa
	}},
}

// newInitialized returns allocator a initialized over a fresh heap of size bytes.
func newInitialized[A Allocator](t testing.TB, a A, size int) (A, *testMemory) {
	t.Helper()
	mem := newTestMemory(t, size)
	require.NoError(t, a.Init(mem, testHeapStart, uint64(size)))
	return a, mem
}

// mustAlloc allocates and fails the test on error.
func mustAlloc(t testing.TB, a Allocator, size, align uint64) Addr {
	t.Helper()
	addr, err := a.Alloc(MustLayout(size, align))
	require.NoError(t, err, "Alloc(%d, %d)", size, align)
	return addr
}

// liveBlock is an outstanding allocation tracked by property tests.
type liveBlock struct {
	addr   Addr
	layout Layout
	seed   byte
}

// requireDisjoint fails if b overlaps any block in live.
func requireDisjoint(t testing.TB, live []liveBlock, b liveBlock) {
	t.Helper()
	for _, o := range live {
		if b.layout.Size == 0 || o.layout.Size == 0 {
			continue
		}
		overlap := b.addr < o.addr+o.layout.Size && o.addr < b.addr+b.layout.Size
		require.False(t, overlap, "block 0x%x+%d overlaps live block 0x%x+%d",
			b.addr, b.layout.Size, o.addr, o.layout.Size)
	}
}
