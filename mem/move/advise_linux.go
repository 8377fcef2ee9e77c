//go:build linux

package move

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/sf2kmem/internal/buf"
)

// Advise tells the kernel the pages covering b will be needed soon. Only the
// whole OS pages inside b are advised; b shorter than a page is a no-op.
// Useful for storage from mmap-backed pools before a Prefetch pass.
func Advise(b []byte) error {
	pg := uintptr(os.Getpagesize())
	start := buf.Addr(b)
	first := buf.AlignUp(start, pg)
	end := (start + uintptr(len(b))) &^ (pg - 1)
	if len(b) == 0 || first >= end {
		return nil
	}
	off := int(first - start)
	return unix.Madvise(b[off:off+int(end-first)], unix.MADV_WILLNEED)
}
