// Package buf contains overflow-safe size arithmetic, alignment and
// little-endian decoding helpers shared by the allocator, the mover and the loader.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative sizes, returning ok = false when
// either operand is negative or the product would overflow int.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// SpanSize returns count*size plus slack bytes, the total reservation needed
// for count blocks of size bytes that must be re-aligned inside the reservation.
//
//	n, err := buf.SpanSize(256, 32, 31) // 8223
func SpanSize(count, size, slack int) (int, error) {
	if slack < 0 {
		return 0, fmt.Errorf("negative slack: %d", slack)
	}
	total, ok := MulOverflowSafe(count, size)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * size=%d", count, size)
	}
	withSlack, ok := AddOverflowSafe(total, slack)
	if !ok {
		return 0, fmt.Errorf("overflow: span=%d + slack=%d", total, slack)
	}
	return withSlack, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}
