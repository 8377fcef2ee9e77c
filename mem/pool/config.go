package pool

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/joshuapare/sf2kmem/internal/buf"
	"github.com/joshuapare/sf2kmem/internal/logging"
)

// DefaultCacheLine is the data cache line size of the SF2000's MIPS32 core.
const DefaultCacheLine = 32

// envLog enables debug logging for allocators built without an explicit logger.
const envLog = "SF2K_LOG_POOL"

// SizeClass describes one pool: BlockCount blocks of BlockSize bytes.
type SizeClass struct {
	BlockSize  int
	BlockCount int
}

// Config holds allocator construction parameters. The zero value of each
// field selects its default.
type Config struct {
	// Classes is the pool schedule. Default: DefaultClasses().
	Classes []SizeClass

	// CacheLine is the alignment of every pool span (power of two). Default: 32.
	CacheLine int

	// Reserver supplies pool backing storage. Default: a HeapReserver.
	Reserver Reserver

	// Fallback serves requests no pool can. Default: a HeapFallback.
	Fallback Fallback

	// Logger receives reservation and double-free diagnostics.
	// Default: discard, or stderr debug output when SF2K_LOG_POOL is set.
	Logger *slog.Logger
}

// DefaultClasses returns the stock schedule: 32..4096 bytes, 256..2 blocks.
func DefaultClasses() []SizeClass {
	return []SizeClass{
		{BlockSize: 32, BlockCount: 256},
		{BlockSize: 64, BlockCount: 128},
		{BlockSize: 128, BlockCount: 64},
		{BlockSize: 256, BlockCount: 32},
		{BlockSize: 512, BlockCount: 16},
		{BlockSize: 1024, BlockCount: 8},
		{BlockSize: 2048, BlockCount: 4},
		{BlockSize: 4096, BlockCount: 2},
	}
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{Classes: DefaultClasses(), CacheLine: DefaultCacheLine}
}

// Validate checks the class table and cache line size. Classes may be given
// in any order but block sizes must be distinct.
func (c *Config) Validate() error {
	if c.CacheLine != 0 && !buf.IsPow2(c.CacheLine) {
		return fmt.Errorf("%w: cache line %d is not a power of two", ErrBadConfig, c.CacheLine)
	}
	line := c.CacheLine
	if line == 0 {
		line = DefaultCacheLine
	}
	seen := make(map[int]bool, len(c.Classes))
	for i, sc := range c.Classes {
		if sc.BlockSize <= 0 {
			return fmt.Errorf("%w: class %d: block size %d", ErrBadConfig, i, sc.BlockSize)
		}
		if sc.BlockCount <= 0 {
			return fmt.Errorf("%w: class %d: block count %d", ErrBadConfig, i, sc.BlockCount)
		}
		if sc.BlockCount > maxBlocks {
			return fmt.Errorf("%w: class %d: block count %d exceeds %d", ErrBadConfig, i, sc.BlockCount, maxBlocks)
		}
		if seen[sc.BlockSize] {
			return fmt.Errorf("%w: duplicate block size %d", ErrBadConfig, sc.BlockSize)
		}
		seen[sc.BlockSize] = true
		if _, err := buf.SpanSize(sc.BlockCount, sc.BlockSize, line-1); err != nil {
			return fmt.Errorf("%w: class %d: %v", ErrBadConfig, i, err)
		}
	}
	return nil
}

// withDefaults returns a copy of c with defaults filled in and classes
// sorted by ascending block size.
func (c *Config) withDefaults() Config {
	out := *c
	if out.Classes == nil {
		out.Classes = DefaultClasses()
	} else {
		out.Classes = slices.Clone(out.Classes)
	}
	slices.SortFunc(out.Classes, func(a, b SizeClass) int { return a.BlockSize - b.BlockSize })
	if out.CacheLine == 0 {
		out.CacheLine = DefaultCacheLine
	}
	if out.Reserver == nil {
		out.Reserver = &HeapReserver{}
	}
	if out.Fallback == nil {
		out.Fallback = &HeapFallback{}
	}
	if out.Logger == nil {
		out.Logger = logging.FromEnv(envLog)
	}
	return out
}
