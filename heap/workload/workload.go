// Package workload contains allocation scenarios that exercise a heap the
// way kernel code does. Each returns a Result whose Value is checked
// against a known answer, so a corrupted heap shows up as ErrMismatch.
package workload

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/joshuapare/kheap/heap"
	"github.com/joshuapare/kheap/heap/alloc"
	"github.com/joshuapare/kheap/heap/container"
	"github.com/joshuapare/kheap/internal/format"
)

// ErrMismatch indicates a workload read back a value it did not write.
var ErrMismatch = errors.New("workload: value mismatch")

// Result summarizes one workload run.
type Result struct {
	Name  string `json:"name"`
	Ops   int    `json:"ops"`   // allocations performed
	Value uint64 `json:"value"` // checked result (sum, final value)
}

// Func runs a workload against h.
type Func func(h *heap.Heap) (Result, error)

var registry = map[string]Func{
	"simple-box":   SimpleBox,
	"large-vec":    func(h *heap.Heap) (Result, error) { return LargeVec(h, 1000) },
	"many-boxes":   func(h *heap.Heap) (Result, error) { return ManyBoxes(h, 10_000) },
	"long-lived":   func(h *heap.Heap) (Result, error) { return LongLived(h, 10_000) },
	"single-array": func(h *heap.Heap) (Result, error) { return SingleArray(h, 1000) },
}

// Names returns the registered workload names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the workload registered under name.
func Lookup(name string) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

func mismatch(name string, got, want uint64) error {
	return errors.Wrapf(ErrMismatch, "%s: got %d, want %d", name, got, want)
}

// SimpleBox boxes two values and reads them back.
func SimpleBox(h *heap.Heap) (Result, error) {
	a, err := container.NewBox(h, uint64(41))
	if err != nil {
		return Result{}, err
	}
	defer a.Free()
	b, err := container.NewBox(h, uint64(13))
	if err != nil {
		return Result{}, err
	}
	defer b.Free()

	if a.Get() != 41 || b.Get() != 13 {
		return Result{}, mismatch("simple-box", a.Get()+b.Get(), 54)
	}
	return Result{Name: "simple-box", Ops: 2, Value: a.Get() + b.Get()}, nil
}

// LargeVec pushes 0..n-1 into a growing Vec and sums them.
func LargeVec(h *heap.Heap, n int) (Result, error) {
	v := container.NewVec[uint64](h)
	defer v.Free()

	for i := range n {
		if err := v.Push(uint64(i)); err != nil {
			return Result{}, errors.Wrapf(err, "large-vec: push %d", i)
		}
	}
	var sum uint64
	for _, x := range v.All {
		sum += x
	}
	want := uint64(n) * uint64(n-1) / 2
	if sum != want {
		return Result{}, mismatch("large-vec", sum, want)
	}
	return Result{Name: "large-vec", Ops: n, Value: sum}, nil
}

// ManyBoxes allocates, checks, and frees n boxes one after another.
func ManyBoxes(h *heap.Heap, n int) (Result, error) {
	for i := range n {
		b, err := container.NewBox(h, uint64(i))
		if err != nil {
			return Result{}, errors.Wrapf(err, "many-boxes: box %d", i)
		}
		got := b.Get()
		b.Free()
		if got != uint64(i) {
			return Result{}, mismatch("many-boxes", got, uint64(i))
		}
	}
	return Result{Name: "many-boxes", Ops: n, Value: uint64(n)}, nil
}

// LongLived keeps one box alive while n short-lived boxes come and go, then
// checks that the long-lived value survived.
func LongLived(h *heap.Heap, n int) (Result, error) {
	long, err := container.NewBox(h, uint64(1))
	if err != nil {
		return Result{}, err
	}
	defer long.Free()

	for i := range n {
		b, err := container.NewBox(h, uint64(i))
		if err != nil {
			return Result{}, errors.Wrapf(err, "long-lived: box %d", i)
		}
		b.Free()
	}
	if got := long.Get(); got != 1 {
		return Result{}, mismatch("long-lived", got, 1)
	}
	return Result{Name: "long-lived", Ops: n + 1, Value: 1}, nil
}

// SingleArray allocates n u32s as one block, fills it with 0..n-1 and sums
// it. On a 4096-byte heap with n = 1000 this is one 4000-byte allocation.
func SingleArray(h *heap.Heap, n int) (Result, error) {
	const elem = 4
	l, err := alloc.NewLayout(uint64(n)*elem, elem)
	if err != nil {
		return Result{}, err
	}
	addr, err := h.Alloc(l)
	if err != nil {
		return Result{}, errors.Wrap(err, "single-array")
	}
	defer h.Dealloc(addr, l)

	mem := h.Memory()
	buf := make([]byte, l.Size)
	for i := range n {
		format.PutU32(buf, i*elem, uint32(i))
	}
	if _, err := mem.WriteAt(buf, int64(addr)); err != nil {
		return Result{}, err
	}

	clear(buf)
	if _, err := mem.ReadAt(buf, int64(addr)); err != nil {
		return Result{}, err
	}
	var sum uint64
	for i := range n {
		sum += uint64(format.ReadU32(buf, i*elem))
	}
	want := uint64(n) * uint64(n-1) / 2
	if sum != want {
		return Result{}, mismatch("single-array", sum, want)
	}
	return Result{Name: "single-array", Ops: 1, Value: sum}, nil
}
