package rom

import "errors"

var (
	// ErrOpen indicates the file could not be opened or sized.
	ErrOpen = errors.New("rom: cannot open image")

	// ErrEmpty indicates a zero-length image.
	ErrEmpty = errors.New("rom: empty image")

	// ErrTooLarge indicates an image longer than the loader's maximum.
	ErrTooLarge = errors.New("rom: image too large")

	// ErrNoMemory indicates the allocator could not supply a buffer.
	ErrNoMemory = errors.New("rom: no memory for image")

	// ErrShortRead indicates a chunk read returned fewer bytes than requested.
	ErrShortRead = errors.New("rom: short read")
)
