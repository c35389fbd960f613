// Package testutil boots simulated machines for tests.
package testutil

import (
	"testing"

	"github.com/joshuapare/kheap/heap"
	"github.com/joshuapare/kheap/heap/boot"
)

// SetupMachine boots a machine with cfg and closes it when the test ends.
// Fails the test if the heap does not initialize.
//
// Example:
//
//	m := testutil.SetupMachine(t, heap.DefaultConfig())
//	addr, err := m.Heap.Alloc(alloc.MustLayout(64, 8))
func SetupMachine(t testing.TB, cfg heap.Config) *boot.Machine {
	t.Helper()

	m, err := boot.New(boot.Options{Heap: cfg})
	if m != nil {
		t.Cleanup(func() { _ = m.Close() })
	}
	if err != nil {
		t.Fatalf("Failed to boot machine: %v", err)
	}
	return m
}

// SetupHeap boots a default-sized heap served by strategy s.
func SetupHeap(t testing.TB, s heap.Strategy) *heap.Heap {
	t.Helper()
	return SetupMachine(t, WithStrategy(s)).Heap
}

// WithStrategy returns heap.DefaultConfig served by s.
func WithStrategy(s heap.Strategy) heap.Config {
	cfg := heap.DefaultConfig()
	cfg.Strategy = s
	return cfg
}

// WithSize returns heap.DefaultConfig with the heap resized to size bytes.
func WithSize(s heap.Strategy, size uint64) heap.Config {
	cfg := WithStrategy(s)
	cfg.Size = size
	return cfg
}
