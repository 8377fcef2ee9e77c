//go:build linux || darwin || freebsd

package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMmapReserver_BacksPools(t *testing.T) {
	a := newWith(t, Config{Reserver: &MmapReserver{}})

	for _, p := range a.Pools() {
		require.True(t, p.Usable())
		start, _ := p.Span()
		require.Zero(t, start%DefaultCacheLine)
	}

	b := a.Allocate(4000)
	for i := range b {
		b[i] = byte(i)
	}
	for i := range b {
		require.Equal(t, byte(i), b[i])
	}
	require.NoError(t, a.Free(b))
	require.NoError(t, a.Close())
}

func TestMmapReserver_RejectsEmpty(t *testing.T) {
	_, err := MmapReserver{}.Reserve(0)
	require.ErrorIs(t, err, ErrReserve)
	require.NoError(t, MmapReserver{}.Release(nil))
}
