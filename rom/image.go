package rom

import (
	"github.com/joshuapare/sf2kmem/internal/buf"
)

// Image is a loaded file. Data is cache-line aligned and exactly Size bytes;
// the alignment slack before it belongs to the same allocation.
type Image struct {
	Path  string
	Data  []byte
	Size  int
	CRC32 uint32

	raw  []byte
	free func([]byte) error
}

// Aligned reports whether Data starts on a line-byte boundary.
func (im *Image) Aligned(line int) bool {
	return buf.IsAligned(im.Data, uintptr(line))
}

// Slack returns the bytes skipped at the front of the allocation.
func (im *Image) Slack() int {
	if im.raw == nil {
		return 0
	}
	return int(buf.Addr(im.Data) - buf.Addr(im.raw))
}

// Release hands the allocation back to the allocator it came from. Data must
// not be used afterwards. Calling Release more than once is a no-op.
func (im *Image) Release() error {
	if im == nil || im.raw == nil {
		return nil
	}
	raw, free := im.raw, im.free
	im.raw, im.free, im.Data = nil, nil, nil
	return free(raw)
}
