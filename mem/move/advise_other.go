//go:build !linux

package move

// Advise is a no-op where madvise hints are unavailable.
func Advise(b []byte) error { return nil }
