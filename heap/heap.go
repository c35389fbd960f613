package heap

import (
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"

	"github.com/joshuapare/kheap/heap/alloc"
	"github.com/joshuapare/kheap/heap/paging"
)

type heapState uint8

const (
	stateNew heapState = iota
	stateReady
	stateFailed
)

// copyChunk bounds the stack buffer Realloc copies through.
const copyChunk = 512

// Heap serializes every operation on one allocator behind a mutex.
//
// Thread-safety: all methods are safe for concurrent use. A holder of the
// lock must not be interrupted by code that allocates; see package irq.
type Heap struct {
	mu   sync.Mutex
	held atomic.Bool

	cfg       Config
	allocator alloc.Allocator
	mem       Backing
	state     heapState
	mapped    int
}

// New validates cfg and builds its allocator. The heap is unusable until
// Init maps its region.
func New(cfg Config) (*Heap, error) {
	if err := cfg.Region().Validate(); err != nil {
		return nil, err
	}
	a, err := cfg.newAllocator()
	if err != nil {
		return nil, err
	}
	return &Heap{cfg: cfg, allocator: a}, nil
}

// Init maps the heap region through backing with frames from frames, then
// initializes the allocator over it exactly once.
//
// On failure the heap is poisoned: later calls return ErrInitFailed and
// pages mapped so far stay mapped.
func (h *Heap) Init(backing Backing, frames paging.FrameAllocator) error {
	h.lock()
	defer h.unlock()

	switch h.state {
	case stateReady:
		return ErrAlreadyInitialized
	case stateFailed:
		return ErrInitFailed
	}

	r := h.cfg.Region()
	pages := r.Pages()
	L.Debug("heap: mapping region", "region", r.String(), "pages", pages.Len())

	mapped, err := MapRegion(r, backing, frames)
	h.mapped = mapped
	if err != nil {
		h.state = stateFailed
		L.Error("heap: mapping failed", "region", r.String(), "mapped", mapped, "pages", pages.Len(), "error", err)
		return err
	}
	L.Debug("heap: mapped region", "first", pages.First.String(), "last", pages.Last.String())

	if err := h.allocator.Init(backing, r.Start, r.Size); err != nil {
		h.state = stateFailed
		return errors.Wrap(err, "heap: allocator init")
	}

	h.mem = backing
	h.state = stateReady
	L.Info("heap: initialized", "region", r.String(), "strategy", h.cfg.Strategy.String(), "pages", mapped)
	return nil
}

// Alloc returns a block satisfying layout, or alloc.ErrOutOfMemory.
func (h *Heap) Alloc(layout alloc.Layout) (alloc.Addr, error) {
	h.lock()
	defer h.unlock()
	return h.allocLocked(layout)
}

// TryAlloc is Alloc for contexts that must not wait: it returns
// ErrLockHeld instead of blocking when the lock is taken.
func (h *Heap) TryAlloc(layout alloc.Layout) (alloc.Addr, error) {
	if !h.mu.TryLock() {
		return 0, ErrLockHeld
	}
	h.held.Store(true)
	defer h.unlock()
	return h.allocLocked(layout)
}

// Dealloc returns the block at addr. layout must equal the one it was
// allocated with. Dealloc on a heap that never initialized panics.
func (h *Heap) Dealloc(addr alloc.Addr, layout alloc.Layout) {
	h.lock()
	defer h.unlock()
	if err := h.ready(); err != nil {
		panic(errors.Wrapf(err, "dealloc 0x%x", addr))
	}
	h.allocator.Dealloc(addr, layout)
}

// Realloc moves the block at addr to a block of newSize bytes with the same
// alignment, copying min(old.Size, newSize) bytes. The old block is freed
// only if the new allocation succeeds.
func (h *Heap) Realloc(addr alloc.Addr, old alloc.Layout, newSize uint64) (alloc.Addr, error) {
	newLayout, err := alloc.NewLayout(newSize, old.Align)
	if err != nil {
		return 0, err
	}

	h.lock()
	defer h.unlock()

	dst, err := h.allocLocked(newLayout)
	if err != nil {
		return 0, err
	}
	if err := h.copyLocked(dst, addr, min(old.Size, newSize)); err != nil {
		h.allocator.Dealloc(dst, newLayout)
		return 0, err
	}
	h.allocator.Dealloc(addr, old)
	return dst, nil
}

// Held reports whether the allocator lock is currently held.
func (h *Heap) Held() bool {
	return h.held.Load()
}

// Memory returns the backing the heap was initialized with, or nil.
func (h *Heap) Memory() Backing {
	h.lock()
	defer h.unlock()
	return h.mem
}

// Mapped returns the number of pages Init mapped, including those mapped
// before a failure.
func (h *Heap) Mapped() int {
	h.lock()
	defer h.unlock()
	return h.mapped
}

// Config returns the configuration the heap was built from.
func (h *Heap) Config() Config {
	return h.cfg
}

// Inspect calls fn with the allocator while holding the lock. fn must not
// call back into h.
func (h *Heap) Inspect(fn func(alloc.Allocator)) error {
	h.lock()
	defer h.unlock()
	if err := h.ready(); err != nil {
		return err
	}
	fn(h.allocator)
	return nil
}

func (h *Heap) lock() {
	h.mu.Lock()
	h.held.Store(true)
}

func (h *Heap) unlock() {
	h.held.Store(false)
	h.mu.Unlock()
}

func (h *Heap) ready() error {
	switch h.state {
	case stateNew:
		return ErrNotInitialized
	case stateFailed:
		return ErrInitFailed
	}
	return nil
}

func (h *Heap) allocLocked(layout alloc.Layout) (alloc.Addr, error) {
	if err := h.ready(); err != nil {
		return 0, err
	}
	addr, err := h.allocator.Alloc(layout)
	if err != nil {
		L.Debug("heap: allocation failed", "size", layout.Size, "align", layout.Align, "error", err)
		return 0, err
	}
	return addr, nil
}

func (h *Heap) copyLocked(dst, src alloc.Addr, n uint64) error {
	var chunk [copyChunk]byte
	for off := uint64(0); off < n; {
		c := min(n-off, copyChunk)
		if _, err := h.mem.ReadAt(chunk[:c], int64(src+off)); err != nil {
			return err
		}
		if _, err := h.mem.WriteAt(chunk[:c], int64(dst+off)); err != nil {
			return err
		}
		off += c
	}
	return nil
}
