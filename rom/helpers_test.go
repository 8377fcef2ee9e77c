package rom

import (
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/sf2kmem/mem/pool"
)

// writeImage writes n seeded random bytes to dir/name and returns the path and contents.
func writeImage(t testing.TB, dir, name string, n int, seed int64) (string, []byte) {
	t.Helper()
	data := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(data)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path, data
}

// newPoolLoader returns a default allocator and a loader over it.
func newPoolLoader(t testing.TB) (*pool.Allocator, *Loader) {
	t.Helper()
	a, err := pool.New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, NewLoader(a, nil)
}

// shortFile reports a larger size than it can deliver.
type shortFile struct {
	data    []byte
	claimed int64
	pos     int64
	closed  bool
}

func (f *shortFile) Read(p []byte) (int, error) {
	if f.pos >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.pos:])
	f.pos += int64(n)
	return n, nil
}

func (f *shortFile) Seek(off int64, whence int) (int64, error) {
	switch whence {
	case 0:
		f.pos = off
	case 2:
		f.pos = f.claimed + off
	}
	return f.pos, nil
}

func (f *shortFile) Close() error {
	f.closed = true
	return nil
}
