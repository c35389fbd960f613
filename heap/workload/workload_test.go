package workload

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kheap/heap"
	"github.com/joshuapare/kheap/heap/alloc"
	"github.com/joshuapare/kheap/internal/testutil"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"large-vec", "long-lived", "many-boxes", "simple-box", "single-array"}, Names())
	_, ok := Lookup("nope")
	assert.False(t, ok)
}

func TestAllWorkloads_AllStrategies(t *testing.T) {
	for _, s := range heap.Strategies() {
		for _, name := range Names() {
			t.Run(s.String()+"/"+name, func(t *testing.T) {
				h := testutil.SetupHeap(t, s)
				fn, ok := Lookup(name)
				require.True(t, ok)

				res, err := fn(h)
				require.NoError(t, err)
				assert.Equal(t, name, res.Name)
			})
		}
	}
}

func TestLargeVec_Sum(t *testing.T) {
	h := testutil.SetupHeap(t, heap.StrategyFixedSizeBlock)
	res, err := LargeVec(h, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(499500), res.Value)
}

func TestSingleArray_FitsSmallHeap(t *testing.T) {
	h := testutil.SetupMachine(t, testutil.WithSize(heap.StrategyFixedSizeBlock, 4096)).Heap

	res, err := SingleArray(h, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(499500), res.Value)
}

func TestLongLived_EightByteClassStaysSmall(t *testing.T) {
	h := testutil.SetupHeap(t, heap.StrategyFixedSizeBlock)

	res, err := LongLived(h, 10_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Value)

	require.NoError(t, h.Inspect(func(a alloc.Allocator) {
		fa := a.(*alloc.FixedSizeBlockAllocator)
		assert.LessOrEqual(t, fa.ClassLen(0), 2, "short-lived boxes reuse one block")
	}))
}

func TestManyBoxes_OnBumpHeapReclaims(t *testing.T) {
	h := testutil.SetupMachine(t, testutil.WithSize(heap.StrategyBump, 4096)).Heap

	// 10000 boxes of 8 bytes exceed 4096 bytes unless every free resets the cursor.
	_, err := ManyBoxes(h, 10_000)
	require.NoError(t, err)
}

func TestLongLived_OnBumpHeapRunsOut(t *testing.T) {
	h := testutil.SetupMachine(t, testutil.WithSize(heap.StrategyBump, 4096)).Heap

	_, err := LongLived(h, 10_000)
	require.True(t, errors.Is(err, alloc.ErrOutOfMemory), "got %v", err)
}
