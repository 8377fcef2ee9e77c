package pool

import "fmt"

// Reserver supplies the backing storage for pools.
type Reserver interface {
	// Reserve returns n bytes of zeroed storage or an error.
	Reserve(n int) ([]byte, error)
	// Release hands back storage obtained from Reserve.
	Release(b []byte) error
}

// HeapReserver reserves storage from the Go heap. A positive Limit caps the
// total bytes outstanding, which lets tests and small targets simulate
// running out of memory part way through New.
type HeapReserver struct {
	Limit int
	used  int
}

// Reserve allocates n bytes, failing with ErrReserve past Limit.
func (h *HeapReserver) Reserve(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrReserve, n)
	}
	if h.Limit > 0 && h.used+n > h.Limit {
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrReserve, n, h.used, h.Limit)
	}
	h.used += n
	return make([]byte, n), nil
}

// Release forgets b; the garbage collector reclaims it.
func (h *HeapReserver) Release(b []byte) error {
	h.used -= len(b)
	if h.used < 0 {
		h.used = 0
	}
	return nil
}

// Used returns the bytes currently reserved.
func (h *HeapReserver) Used() int { return h.used }
