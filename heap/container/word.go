package container

import (
	"unsafe"

	"github.com/joshuapare/kheap/heap"
	"github.com/joshuapare/kheap/heap/alloc"
	"github.com/joshuapare/kheap/internal/format"
)

// Word is an unsigned integer a container can store.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

func sizeOf[T Word]() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}

// load reads the T at addr. A fault on heap memory is a kernel bug, so
// errors panic.
func load[T Word](mem heap.Backing, addr alloc.Addr) T {
	var b [format.WordSize]byte
	n := sizeOf[T]()
	if _, err := mem.ReadAt(b[:n], int64(addr)); err != nil {
		panic(err)
	}
	return T(format.ReadU64(b[:], 0))
}

// store writes v at addr.
func store[T Word](mem heap.Backing, addr alloc.Addr, v T) {
	var b [format.WordSize]byte
	format.PutU64(b[:], 0, uint64(v))
	if _, err := mem.WriteAt(b[:sizeOf[T]()], int64(addr)); err != nil {
		panic(err)
	}
}
