// Package container provides kernel data structures whose storage lives in
// a heap.Heap: Box holds one value, Vec a growable array. Values are
// unsigned integers stored little-endian at heap addresses.
//
// Containers are not safe for concurrent use. Their heap is.
package container
