//go:build !linux && !darwin && !freebsd

package pool

// MmapReserver falls back to heap storage where anonymous mappings are unavailable.
type MmapReserver struct {
	heap HeapReserver
}

// Reserve allocates n bytes from the Go heap.
func (m *MmapReserver) Reserve(n int) ([]byte, error) { return m.heap.Reserve(n) }

// Release forgets b.
func (m *MmapReserver) Release(b []byte) error { return m.heap.Release(b) }
