//go:build linux || darwin || freebsd

package pool

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapReserver reserves each pool as a private anonymous mapping. Mappings
// are page aligned, outside the Go heap and returned to the OS on Release.
type MmapReserver struct{}

// Reserve maps n bytes of zeroed, read-write memory.
func (MmapReserver) Reserve(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrReserve, n)
	}
	b, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d bytes: %w", ErrReserve, n, err)
	}
	return b, nil
}

// Release unmaps b. b must be exactly a slice returned by Reserve.
func (MmapReserver) Release(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if err := unix.Munmap(b); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}
