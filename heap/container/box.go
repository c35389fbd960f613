package container

import (
	"github.com/joshuapare/kheap/heap"
	"github.com/joshuapare/kheap/heap/alloc"
)

// Box is a single heap-allocated value.
type Box[T Word] struct {
	h    *heap.Heap
	addr alloc.Addr
}

// NewBox allocates room for a T in h and stores v there.
func NewBox[T Word](h *heap.Heap, v T) (*Box[T], error) {
	addr, err := h.Alloc(boxLayout[T]())
	if err != nil {
		return nil, err
	}
	b := &Box[T]{h: h, addr: addr}
	b.Set(v)
	return b, nil
}

// Addr returns the heap address of the value.
func (b *Box[T]) Addr() alloc.Addr {
	return b.addr
}

// Get loads the value.
func (b *Box[T]) Get() T {
	return load[T](b.h.Memory(), b.addr)
}

// Set stores v.
func (b *Box[T]) Set(v T) {
	store(b.h.Memory(), b.addr, v)
}

// Free returns the value's memory to the heap. The box must not be used
// afterwards.
func (b *Box[T]) Free() {
	b.h.Dealloc(b.addr, boxLayout[T]())
	b.addr = 0
}

func boxLayout[T Word]() alloc.Layout {
	size := sizeOf[T]()
	return alloc.Layout{Size: size, Align: size}
}
