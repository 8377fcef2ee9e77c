// Package mmfile maps ROM images read-only so they can be compared against
// what the loader produced without going through the pool allocator.
package mmfile

import "errors"

// ErrTooLarge is returned when a file exceeds the caller's size limit.
var ErrTooLarge = errors.New("mmfile: file exceeds limit")

func noop() error { return nil }
