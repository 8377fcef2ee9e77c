package pool

import (
	"fmt"

	"github.com/joshuapare/sf2kmem/internal/buf"
)

// Fallback is the general-purpose allocator used when no pool fits.
type Fallback interface {
	// Alloc returns n bytes, or nil when memory is exhausted.
	Alloc(n int) []byte
	// Free releases a slice returned by Alloc, or any slice whose first
	// element lies inside one.
	Free(b []byte) error
}

// HeapFallback allocates from the Go heap and tracks what is outstanding.
// A positive Limit caps outstanding bytes; Alloc returns nil beyond it.
type HeapFallback struct {
	Limit int

	bytes int
	live  map[uintptr][]byte // outstanding allocations by address of their first byte
}

// Alloc returns a fresh zeroed slice of n bytes.
func (h *HeapFallback) Alloc(n int) []byte {
	if n < 0 || (h.Limit > 0 && h.bytes+n > h.Limit) {
		return nil
	}
	if h.live == nil {
		h.live = make(map[uintptr][]byte)
	}
	// cap >= 1 gives even empty allocations a distinct address.
	b := make([]byte, n, max(n, 1))
	h.live[buf.Addr(b)] = b
	h.bytes += n
	return b
}

// Free drops the accounting for the allocation containing b's first byte;
// the garbage collector reclaims it. The full allocation is released even
// when b is a shorter or interior slice of it.
func (h *HeapFallback) Free(b []byte) error {
	key, ok := h.find(b)
	if !ok {
		return fmt.Errorf("%w: %d-byte slice is not an outstanding fallback allocation", ErrForeign, len(b))
	}
	h.bytes -= len(h.live[key])
	delete(h.live, key)
	return nil
}

func (h *HeapFallback) find(b []byte) (uintptr, bool) {
	if cap(b) == 0 || len(h.live) == 0 {
		return 0, false
	}
	addr := buf.Addr(b)
	if _, ok := h.live[addr]; ok {
		return addr, true
	}
	for start, a := range h.live {
		if addr >= start && addr < start+uintptr(cap(a)) {
			return start, true
		}
	}
	return 0, false
}

// Live returns the number of outstanding fallback allocations.
func (h *HeapFallback) Live() int { return len(h.live) }

// Bytes returns the outstanding fallback bytes.
func (h *HeapFallback) Bytes() int { return h.bytes }
