package rom

import (
	"fmt"
	"hash/crc32"
	"io"
	"log/slog"
	"os"

	"github.com/joshuapare/sf2kmem/internal/buf"
	"github.com/joshuapare/sf2kmem/internal/logging"
)

const (
	// MaxSize is the largest image the loader accepts (2 MB).
	MaxSize = 0x200000

	// ChunkSize is the read granularity (8 KB).
	ChunkSize = 8192

	// CacheLine is the alignment of loaded image data.
	CacheLine = 32
)

// Allocator supplies image buffers. *pool.Allocator and *pool.SafeAllocator
// satisfy it.
type Allocator interface {
	Allocate(size int) []byte
	Free(b []byte) error
}

// File is the subset of *os.File the loader reads through.
type File interface {
	io.ReadSeeker
	io.Closer
}

// LoaderOptions configures a Loader. Zero fields select defaults.
type LoaderOptions struct {
	MaxSize   int                             // Default: MaxSize
	ChunkSize int                             // Default: ChunkSize
	CacheLine int                             // Default: CacheLine; must be a power of two
	Open      func(path string) (File, error) // Default: os.Open
	Logger    *slog.Logger                    // Default: discard
}

// Loader reads bounded-size files into allocator memory.
type Loader struct {
	alloc Allocator
	max   int
	chunk int
	line  int
	open  func(string) (File, error)
	log   *slog.Logger
}

// NewLoader returns a loader drawing buffers from a.
func NewLoader(a Allocator, opts *LoaderOptions) *Loader {
	if opts == nil {
		opts = &LoaderOptions{}
	}
	l := &Loader{
		alloc: a,
		max:   opts.MaxSize,
		chunk: opts.ChunkSize,
		line:  opts.CacheLine,
		open:  opts.Open,
		log:   logging.OrDiscard(opts.Logger),
	}
	if l.max <= 0 {
		l.max = MaxSize
	}
	if l.chunk <= 0 {
		l.chunk = ChunkSize
	}
	if !buf.IsPow2(l.line) {
		l.line = CacheLine
	}
	if l.open == nil {
		l.open = func(p string) (File, error) { return os.Open(p) }
	}
	return l
}

// Load reads the file at path into a fresh cache-line aligned buffer.
// On any failure it returns a nil Image and an error wrapping one of the
// package sentinels, after releasing whatever it had allocated.
func (l *Loader) Load(path string) (*Image, error) {
	f, err := l.open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: seek %s: %w", ErrOpen, path, err)
	}
	if end <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	if end > int64(l.max) {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, path, end, l.max)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: rewind %s: %w", ErrOpen, path, err)
	}
	size := int(end)

	raw := l.alloc.Allocate(size + l.line)
	if raw == nil {
		return nil, fmt.Errorf("%w: %d bytes for %s", ErrNoMemory, size+l.line, path)
	}
	data, _, ok := buf.AlignSlice(raw, uintptr(l.line), size)
	if !ok {
		_ = l.alloc.Free(raw)
		return nil, fmt.Errorf("%w: %d-byte buffer cannot hold %d aligned bytes", ErrNoMemory, len(raw), size)
	}

	for off := 0; off < size; {
		want := min(l.chunk, size-off)
		got, err := io.ReadFull(f, data[off:off+want])
		if got != want {
			_ = l.alloc.Free(raw)
			return nil, fmt.Errorf("%w: %s at offset %d: got %d of %d bytes: %v",
				ErrShortRead, path, off, got, want, err)
		}
		off += got
	}

	img := &Image{
		Path:  path,
		Data:  data,
		Size:  size,
		CRC32: crc32.ChecksumIEEE(data),
		raw:   raw,
		free:  l.alloc.Free,
	}
	l.log.Debug("image loaded", "path", path, "size", size, "crc32", fmt.Sprintf("%08x", img.CRC32),
		"slack", img.Slack())
	return img, nil
}

// LoadBytes loads path and returns the aligned data and its length, or
// (nil, 0) on any failure. The returned slice may be passed to the
// allocator's Free to release the whole allocation.
func (l *Loader) LoadBytes(path string) ([]byte, int) {
	img, err := l.Load(path)
	if err != nil {
		l.log.Debug("image load failed", "path", path, "err", err)
		return nil, 0
	}
	return img.Data, img.Size
}
