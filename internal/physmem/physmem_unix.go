//go:build unix

package physmem

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// mapAnon reserves size bytes of anonymous, private, zero-filled memory
// outside the Go heap.
func mapAnon(size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	release := func() error {
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, release, nil
}
