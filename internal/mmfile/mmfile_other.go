//go:build !unix

package mmfile

import (
	"fmt"
	"os"
)

// Map reads the entire file when mmap is not available.
func Map(path string, limit int64) ([]byte, func() error, error) {
	if limit > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, nil, err
		}
		if info.Size() > limit {
			return nil, nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, path, info.Size(), limit)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, noop, nil
}
