package rom

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/sf2kmem/mem/pool"
)

func TestSystem_Lifecycle(t *testing.T) {
	var logs bytes.Buffer
	s, err := NewSystem(&SystemConfig{
		CacheEntries: 2,
		Logger:       slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	require.NoError(t, err)
	require.Contains(t, logs.String(), "memory system ready")

	dir := t.TempDir()
	path, want := writeImage(t, dir, "msx2bios.rom", 1500, 9)
	img, err := s.Cache.Get(path)
	require.NoError(t, err)
	require.Equal(t, want, img.Data)

	st := s.Stats()
	require.Equal(t, 1, st.Cache.Entries)
	require.Equal(t, uint64(1), st.Pool.PoolAllocs)

	require.NoError(t, s.Reset())
	require.Zero(t, s.Cache.Len())
	require.Equal(t, 8*8192, s.Stats().Pool.ReservedBytes(), "reset keeps pools")

	require.NoError(t, s.Close())
	require.Nil(t, s.Alloc.Allocate(1))
	require.NoError(t, s.Close())
}

func TestSystem_Concurrent(t *testing.T) {
	s, err := NewSystem(&SystemConfig{Concurrent: true})
	require.NoError(t, err)
	defer s.Close()
	_, ok := s.Alloc.(*pool.SafeAllocator)
	require.True(t, ok)
}

func TestSystem_BadPoolConfig(t *testing.T) {
	_, err := NewSystem(&SystemConfig{Pool: &pool.Config{CacheLine: 12}})
	require.ErrorIs(t, err, pool.ErrBadConfig)
}

func TestSystem_CustomLoader(t *testing.T) {
	s, err := NewSystem(&SystemConfig{Loader: &LoaderOptions{MaxSize: 64}})
	require.NoError(t, err)
	defer s.Close()

	path, _ := writeImage(t, t.TempDir(), "x.rom", 65, 1)
	_, err = s.Loader.Load(path)
	require.ErrorIs(t, err, ErrTooLarge)
}
