//go:build unix

package mmfile

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Map maps the file at path read-only and returns its contents with a
// cleanup that unmaps them. A positive limit rejects larger files with
// ErrTooLarge. Empty files yield an empty slice.
func Map(path string, limit int64) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() // mapping keeps pages alive

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := info.Size()
	if limit > 0 && size > limit {
		return nil, nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, path, size, limit)
	}
	if size == 0 {
		return []byte{}, noop, nil
	}
	if size > int64(^uint(0)>>1) {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("mmfile: mmap %s: %w", path, err)
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		data = nil
		if errors.Is(err, unix.EINVAL) {
			return nil
		}
		return err
	}
	return data, cleanup, nil
}
