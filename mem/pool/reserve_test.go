package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeapReserver_Limit(t *testing.T) {
	r := &HeapReserver{Limit: 100}
	b, err := r.Reserve(60)
	require.NoError(t, err)
	require.Len(t, b, 60)
	require.Equal(t, 60, r.Used())

	_, err = r.Reserve(41)
	require.ErrorIs(t, err, ErrReserve)

	require.NoError(t, r.Release(b))
	require.Zero(t, r.Used())

	_, err = r.Reserve(-1)
	require.ErrorIs(t, err, ErrReserve)
}

func TestHeapFallback_Accounting(t *testing.T) {
	f := &HeapFallback{Limit: 10}
	b := f.Alloc(6)
	require.Len(t, b, 6)
	require.Nil(t, f.Alloc(5))
	require.Nil(t, f.Alloc(-1))
	require.Equal(t, 1, f.Live())
	require.Equal(t, 6, f.Bytes())

	require.NoError(t, f.Free(b))
	require.Zero(t, f.Live())
	require.ErrorIs(t, f.Free(b), ErrForeign)
}

func TestHeapFallback_InteriorSliceReleasesWholeAllocation(t *testing.T) {
	f := &HeapFallback{Limit: 1000}
	for range 10 {
		b := f.Alloc(532)
		require.NotNil(t, b, "accounting must not drift across cycles")
		require.NoError(t, f.Free(b[17:517]))
		require.Zero(t, f.Live())
		require.Zero(t, f.Bytes())
	}
}

func TestHeapFallback_EmptyAllocationsAreDistinct(t *testing.T) {
	f := &HeapFallback{}
	a, b := f.Alloc(0), f.Alloc(0)
	require.Equal(t, 2, f.Live())
	require.NoError(t, f.Free(a))
	require.NoError(t, f.Free(b))
	require.Zero(t, f.Live())
	require.ErrorIs(t, f.Free(a), ErrForeign)
}
