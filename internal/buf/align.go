package buf

import "unsafe"

// IsPow2 reports whether n is a positive power of two.
func IsPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// AlignUp rounds addr up to the next multiple of align. align must be a power of two.
func AlignUp(addr, align uintptr) uintptr {
	mask := align - 1
	return (addr + mask) &^ mask
}

// Addr returns the address of the first element of b's backing array.
// It is 0 for a nil slice; zero-capacity slices report an unspecified address.
func Addr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// IsAligned reports whether the first byte of b sits on an align boundary.
func IsAligned(b []byte, align uintptr) bool {
	return Addr(b)&(align-1) == 0
}

// AlignSlice returns the suffix of b starting at the first align boundary,
// and the number of bytes skipped. ok is false when the aligned start plus n
// bytes does not fit inside cap(b).
func AlignSlice(b []byte, align uintptr, n int) (aligned []byte, skip int, ok bool) {
	if n < 0 || cap(b) == 0 {
		return nil, 0, false
	}
	base := Addr(b)
	skip = int(AlignUp(base, align) - base)
	end, sum := AddOverflowSafe(skip, n)
	if !sum || end > cap(b) {
		return nil, 0, false
	}
	return b[skip:end:end], skip, true
}
