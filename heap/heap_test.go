package heap

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kheap/heap/alloc"
	"github.com/joshuapare/kheap/heap/paging"
	"github.com/joshuapare/kheap/internal/format"
)

func TestHeap_UseBeforeInit(t *testing.T) {
	h, err := New(DefaultConfig())
	require.NoError(t, err)

	_, err = h.Alloc(alloc.MustLayout(8, 8))
	assert.True(t, errors.Is(err, ErrNotInitialized))

	_, err = h.TryAlloc(alloc.MustLayout(8, 8))
	assert.True(t, errors.Is(err, ErrNotInitialized))

	err = h.Inspect(func(alloc.Allocator) { t.Fatal("inspect ran before init") })
	assert.True(t, errors.Is(err, ErrNotInitialized))

	assert.Panics(t, func() { h.Dealloc(format.DefaultHeapStart, alloc.MustLayout(8, 8)) })
	assert.Nil(t, h.Memory())
	assert.Equal(t, 0, h.Mapped())
}

func TestHeap_InitMapsEveryPage(t *testing.T) {
	for _, s := range Strategies() {
		t.Run(s.String(), func(t *testing.T) {
			h, err := New(configFor(s))
			require.NoError(t, err)
			pt, frames := newTestBacking(t, testFrames)

			require.NoError(t, h.Init(pt, frames))
			assert.Equal(t, 25, h.Mapped())

			// Root table at creation, three intermediate tables, one frame per page.
			assert.Equal(t, uint64(1+3+25), frames.Allocated())

			for page := range h.Config().Region().Pages().All {
				_, flags, ok := pt.TranslatePage(page)
				require.True(t, ok, "page %s not mapped", page)
				assert.True(t, flags.Contains(paging.FlagPresent|paging.FlagWritable))
			}
			end := paging.PageContaining(paging.VirtAddr(h.Config().Region().End()))
			_, _, ok := pt.TranslatePage(end)
			assert.False(t, ok, "page past the heap stays unmapped")
		})
	}
}

func TestHeap_AllocWriteRead(t *testing.T) {
	for _, s := range Strategies() {
		t.Run(s.String(), func(t *testing.T) {
			h := newTestHeap(t, configFor(s))
			r := h.Config().Region()

			l := alloc.MustLayout(300, 16)
			addr, err := h.Alloc(l)
			require.NoError(t, err)
			assert.True(t, format.IsAligned(addr, 16))
			assert.GreaterOrEqual(t, addr, r.Start)
			assert.LessOrEqual(t, addr+l.Size, r.End())

			payload := bytes.Repeat([]byte{0xA5}, int(l.Size))
			_, err = h.Memory().WriteAt(payload, int64(addr))
			require.NoError(t, err)

			got := make([]byte, l.Size)
			_, err = h.Memory().ReadAt(got, int64(addr))
			require.NoError(t, err)
			assert.Equal(t, payload, got)

			h.Dealloc(addr, l)
		})
	}
}

func TestHeap_DoubleInit(t *testing.T) {
	h, err := New(configFor(StrategyBump))
	require.NoError(t, err)
	pt, frames := newTestBacking(t, testFrames)
	require.NoError(t, h.Init(pt, frames))

	first, err := h.Alloc(alloc.MustLayout(64, 8))
	require.NoError(t, err)

	err = h.Init(pt, frames)
	require.True(t, errors.Is(err, ErrAlreadyInitialized))

	// The strategy was not reinitialized: the cursor kept moving.
	second, err := h.Alloc(alloc.MustLayout(64, 8))
	require.NoError(t, err)
	assert.Equal(t, first+64, second)
}

func TestHeap_FrameExhaustionLeavesEarlierPagesMapped(t *testing.T) {
	h, err := New(DefaultConfig())
	require.NoError(t, err)
	pt, frames := newTestBacking(t, testFrames)

	// Page 1 costs its frame plus three tables; pages 2-7 cost one each.
	err = h.Init(pt, &limitedFrames{inner: frames, n: 10})
	require.True(t, errors.Is(err, paging.ErrFrameAllocationFailed), "got %v", err)
	assert.Equal(t, 7, h.Mapped())

	i := 0
	for page := range h.Config().Region().Pages().All {
		_, _, ok := pt.TranslatePage(page)
		assert.Equal(t, i < 7, ok, "page %d", i)
		i++
	}

	_, err = h.Alloc(alloc.MustLayout(8, 8))
	assert.True(t, errors.Is(err, ErrInitFailed))
	err = h.Init(pt, frames)
	assert.True(t, errors.Is(err, ErrInitFailed), "a failed heap cannot be retried")
}

func TestHeap_TableExhaustionOnFirstPage(t *testing.T) {
	h, err := New(DefaultConfig())
	require.NoError(t, err)
	pt, frames := newTestBacking(t, testFrames)

	err = h.Init(pt, &limitedFrames{inner: frames, n: 2})
	require.True(t, errors.Is(err, paging.ErrFrameAllocationFailed), "got %v", err)
	assert.Equal(t, 0, h.Mapped())
}

func TestHeap_AlreadyMappedPage(t *testing.T) {
	h, err := New(DefaultConfig())
	require.NoError(t, err)
	pt, frames := newTestBacking(t, testFrames)

	// Something else already owns the third heap page.
	third := paging.PageContaining(paging.VirtAddr(format.DefaultHeapStart + 2*format.PageSize))
	f, ok := frames.AllocateFrame()
	require.True(t, ok)
	require.NoError(t, pt.MapTo(third, f, paging.FlagPresent, frames))

	err = h.Init(pt, frames)
	require.True(t, errors.Is(err, paging.ErrPageAlreadyMapped), "got %v", err)
	assert.Equal(t, 2, h.Mapped())
}

func TestHeap_Realloc(t *testing.T) {
	h := newTestHeap(t, DefaultConfig())
	mem := h.Memory()

	old := alloc.MustLayout(40, 8)
	addr, err := h.Alloc(old)
	require.NoError(t, err)

	data := []byte("the quick brown fox jumps over the lazy!")
	require.Len(t, data, 40)
	_, err = mem.WriteAt(data, int64(addr))
	require.NoError(t, err)

	grown, err := h.Realloc(addr, old, 3000)
	require.NoError(t, err)
	assert.NotEqual(t, addr, grown)

	got := make([]byte, 40)
	_, err = mem.ReadAt(got, int64(grown))
	require.NoError(t, err)
	assert.Equal(t, data, got)

	shrunk, err := h.Realloc(grown, alloc.MustLayout(3000, 8), 9)
	require.NoError(t, err)
	got = make([]byte, 9)
	_, err = mem.ReadAt(got, int64(shrunk))
	require.NoError(t, err)
	assert.Equal(t, data[:9], got)

	_, err = h.Realloc(shrunk, alloc.MustLayout(9, 8), 1<<30)
	assert.True(t, errors.Is(err, alloc.ErrOutOfMemory))
}

func TestHeap_TryAllocWhileLocked(t *testing.T) {
	h := newTestHeap(t, DefaultConfig())
	assert.False(t, h.Held())

	h.lock()
	assert.True(t, h.Held())
	_, err := h.TryAlloc(alloc.MustLayout(8, 8))
	assert.True(t, errors.Is(err, ErrLockHeld))
	h.unlock()

	assert.False(t, h.Held())
	_, err = h.TryAlloc(alloc.MustLayout(8, 8))
	assert.NoError(t, err)
}

func TestHeap_InspectHoldsLock(t *testing.T) {
	h := newTestHeap(t, configFor(StrategyLinkedList))

	var regions []alloc.FreeRegion
	err := h.Inspect(func(a alloc.Allocator) {
		assert.True(t, h.Held())
		regions = a.(*alloc.LinkedListAllocator).Regions()
	})
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, h.Config().Size, regions[0].Size)
}

func TestHeap_ConcurrentAllocators(t *testing.T) {
	for _, s := range []Strategy{StrategyLinkedList, StrategyFixedSizeBlock} {
		t.Run(s.String(), func(t *testing.T) {
			h := newTestHeap(t, configFor(s))
			mem := h.Memory()

			const workers, rounds = 8, 200
			var wg sync.WaitGroup
			errs := make(chan error, workers)
			for w := range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					l := alloc.MustLayout(uint64(16+w*24), 8)
					want := bytes.Repeat([]byte{byte(w + 1)}, int(l.Size))
					got := make([]byte, l.Size)
					for range rounds {
						addr, err := h.Alloc(l)
						if err != nil {
							errs <- err
							return
						}
						if _, err := mem.WriteAt(want, int64(addr)); err != nil {
							errs <- err
							return
						}
						if _, err := mem.ReadAt(got, int64(addr)); err != nil {
							errs <- err
							return
						}
						if !bytes.Equal(want, got) {
							errs <- errors.Newf("worker %d: block 0x%x overwritten", w, addr)
							return
						}
						h.Dealloc(addr, l)
					}
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}
		})
	}
}

func TestHeap_LogsInit(t *testing.T) {
	var out bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	newTestHeap(t, DefaultConfig())
	assert.Contains(t, out.String(), "heap: initialized")
	assert.Contains(t, out.String(), "strategy=fixed-size-block")
}

func TestRegister(t *testing.T) {
	h := newTestHeap(t, DefaultConfig())

	require.NoError(t, Register(h))
	assert.Same(t, h, Default())

	other := newTestHeap(t, DefaultConfig())
	assert.True(t, errors.Is(Register(other), ErrAlreadyRegistered))
	assert.Same(t, h, Default())
}
