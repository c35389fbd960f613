package heap

import "sync"

var (
	processMu   sync.Mutex
	processHeap *Heap
)

// Register installs h as the process-wide heap. It can be called once.
func Register(h *Heap) error {
	processMu.Lock()
	defer processMu.Unlock()
	if processHeap != nil {
		return ErrAlreadyRegistered
	}
	processHeap = h
	return nil
}

// Default returns the registered process-wide heap, or nil.
func Default() *Heap {
	processMu.Lock()
	defer processMu.Unlock()
	return processHeap
}
