package pool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/sf2kmem/internal/buf"
)

// newDefault builds a default allocator and closes it with the test.
func newDefault(t testing.TB) *Allocator {
	t.Helper()
	a, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// newWith builds an allocator from cfg and closes it with the test.
func newWith(t testing.TB, cfg Config) *Allocator {
	t.Helper()
	a, err := New(&cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// poolIndex returns the index of the pool with the given block size.
func poolIndex(t testing.TB, a *Allocator, blockSize int) int {
	t.Helper()
	for i, p := range a.Pools() {
		if p.BlockSize() == blockSize {
			return i
		}
	}
	t.Fatalf("no %d-byte pool", blockSize)
	return -1
}

// requireOutsideAllPools asserts b's first byte lies in no pool span.
func requireOutsideAllPools(t testing.TB, a *Allocator, b []byte) {
	t.Helper()
	addr := buf.Addr(b)
	for _, p := range a.Pools() {
		start, end := p.Span()
		require.False(t, addr >= start && addr < end,
			"address %#x inside %d-byte pool [%#x,%#x)", addr, p.BlockSize(), start, end)
	}
}

// requireConserved asserts free + in-use == block count for every pool.
func requireConserved(t testing.TB, a *Allocator) {
	t.Helper()
	for _, ps := range a.Stats().Pools {
		if !ps.Usable {
			continue
		}
		require.Equal(t, ps.BlockCount, ps.FreeCount+ps.InUse,
			"%d-byte pool: free %d + in use %d", ps.BlockSize, ps.FreeCount, ps.InUse)
	}
}
