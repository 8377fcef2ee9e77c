package mmfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.rom")
	want := []byte{0xde, 0xad, 0xbe, 0xef, 0x42}
	require.NoError(t, os.WriteFile(path, want, 0o644))

	data, cleanup, err := Map(path, 0)
	require.NoError(t, err)
	require.Equal(t, want, data)
	require.NoError(t, cleanup())
	require.NoError(t, cleanup(), "second cleanup is a no-op")
}

func TestMap_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.rom")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	data, cleanup, err := Map(path, 0)
	require.NoError(t, err)
	require.Empty(t, data)
	require.NotNil(t, cleanup)
	require.NoError(t, cleanup())
}

func TestMap_Limit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.rom")
	require.NoError(t, os.WriteFile(path, make([]byte, 65), 0o644))

	_, _, err := Map(path, 64)
	require.ErrorIs(t, err, ErrTooLarge)

	data, cleanup, err := Map(path, 65)
	require.NoError(t, err)
	require.Len(t, data, 65)
	require.NoError(t, cleanup())
}

func TestMap_Missing(t *testing.T) {
	_, _, err := Map(filepath.Join(t.TempDir(), "nope.rom"), 0)
	require.ErrorIs(t, err, os.ErrNotExist)
}
