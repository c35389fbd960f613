package container

import (
	"fmt"

	"github.com/joshuapare/kheap/heap"
	"github.com/joshuapare/kheap/heap/alloc"
)

// minVecCap is the capacity of a Vec's first allocation.
const minVecCap = 4

// Vec is a growable array in the heap. Growth doubles the capacity through
// heap.Realloc, so element addresses change when the Vec grows.
type Vec[T Word] struct {
	h    *heap.Heap
	addr alloc.Addr // 0 until the first allocation
	len  int
	cap  int
}

// NewVec returns an empty Vec. Nothing is allocated until the first Push.
func NewVec[T Word](h *heap.Heap) *Vec[T] {
	return &Vec[T]{h: h}
}

// NewVecWithCapacity returns an empty Vec with room for n elements.
func NewVecWithCapacity[T Word](h *heap.Heap, n int) (*Vec[T], error) {
	v := NewVec[T](h)
	if n > 0 {
		if err := v.grow(n); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Len returns the number of elements.
func (v *Vec[T]) Len() int { return v.len }

// Cap returns the number of elements the current allocation can hold.
func (v *Vec[T]) Cap() int { return v.cap }

// Push appends x, growing the allocation when full. On
// alloc.ErrOutOfMemory the Vec is unchanged.
func (v *Vec[T]) Push(x T) error {
	if v.len == v.cap {
		if err := v.grow(max(minVecCap, 2*v.cap)); err != nil {
			return err
		}
	}
	store(v.h.Memory(), v.elem(v.len), x)
	v.len++
	return nil
}

// Pop removes and returns the last element.
func (v *Vec[T]) Pop() (T, bool) {
	if v.len == 0 {
		var zero T
		return zero, false
	}
	v.len--
	return load[T](v.h.Memory(), v.elem(v.len)), true
}

// Get returns element i. It panics if i is out of range.
func (v *Vec[T]) Get(i int) T {
	v.check(i)
	return load[T](v.h.Memory(), v.elem(i))
}

// Set replaces element i. It panics if i is out of range.
func (v *Vec[T]) Set(i int, x T) {
	v.check(i)
	store(v.h.Memory(), v.elem(i), x)
}

// All yields every element in order.
func (v *Vec[T]) All(yield func(int, T) bool) {
	mem := v.h.Memory()
	for i := range v.len {
		if !yield(i, load[T](mem, v.elem(i))) {
			return
		}
	}
}

// Free returns the storage to the heap and empties the Vec.
func (v *Vec[T]) Free() {
	if v.addr != 0 {
		v.h.Dealloc(v.addr, v.layout(v.cap))
	}
	v.addr, v.len, v.cap = 0, 0, 0
}

func (v *Vec[T]) grow(newCap int) error {
	var (
		addr alloc.Addr
		err  error
	)
	if v.addr == 0 {
		addr, err = v.h.Alloc(v.layout(newCap))
	} else {
		addr, err = v.h.Realloc(v.addr, v.layout(v.cap), v.layout(newCap).Size)
	}
	if err != nil {
		return err
	}
	v.addr, v.cap = addr, newCap
	return nil
}

func (v *Vec[T]) layout(n int) alloc.Layout {
	size := sizeOf[T]()
	return alloc.Layout{Size: uint64(n) * size, Align: size}
}

func (v *Vec[T]) elem(i int) alloc.Addr {
	return v.addr + uint64(i)*sizeOf[T]()
}

func (v *Vec[T]) check(i int) {
	if i < 0 || i >= v.len {
		panic(fmt.Sprintf("container: index %d out of range [0:%d]", i, v.len))
	}
}
