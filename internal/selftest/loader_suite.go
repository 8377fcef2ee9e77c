package selftest

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/joshuapare/sf2kmem/internal/mmfile"
	"github.com/joshuapare/sf2kmem/rom"
)

// LoaderSuite exercises the ROM loader against scratch files in Env.Dir.
func LoaderSuite() Suite {
	return Suite{
		Name: "loader",
		Cases: []Case{
			{Name: "missing file", Run: loadMissing},
			{Name: "empty file", Run: loadEmpty},
			{Name: "oversized file", Run: loadOversized},
			{Name: "valid images", Run: loadValid},
		},
	}
}

// withLoader runs fn with a fresh system and scratch directory.
func withLoader(env *Env, fn func(s *rom.System, dir string) (Result, string)) (Result, string) {
	dir, err := os.MkdirTemp(env.Dir, "sf2k-selftest-")
	if err != nil {
		return fail("scratch dir: %v", err)
	}
	defer os.RemoveAll(dir)

	s, err := rom.NewSystem(&rom.SystemConfig{Logger: env.Logger})
	if err != nil {
		return fail("system: %v", err)
	}
	defer func() {
		_ = s.Cache.Reset()
		env.record(s.Stats().Pool)
		_ = s.Close()
	}()
	return fn(s, dir)
}

func expectLoadError(s *rom.System, path string, want error) (Result, string) {
	img, err := s.Loader.Load(path)
	if !errors.Is(err, want) {
		return fail("got %v, want %v", err, want)
	}
	if img != nil {
		return fail("failed load returned an image")
	}
	if data, n := s.Loader.LoadBytes(path); data != nil || n != 0 {
		return fail("LoadBytes returned %d bytes", n)
	}
	return pass("%v", want)
}

func loadMissing(env *Env) (Result, string) {
	return withLoader(env, func(s *rom.System, dir string) (Result, string) {
		return expectLoadError(s, filepath.Join(dir, "missing.rom"), rom.ErrOpen)
	})
}

func loadEmpty(env *Env) (Result, string) {
	return withLoader(env, func(s *rom.System, dir string) (Result, string) {
		path := filepath.Join(dir, "empty.rom")
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fail("%v", err)
		}
		return expectLoadError(s, path, rom.ErrEmpty)
	})
}

func loadOversized(env *Env) (Result, string) {
	return withLoader(env, func(s *rom.System, dir string) (Result, string) {
		path := filepath.Join(dir, "oversized.rom")
		f, err := os.Create(path)
		if err != nil {
			return fail("%v", err)
		}
		err = errors.Join(f.Truncate(rom.MaxSize+1), f.Close())
		if err != nil {
			return fail("%v", err)
		}
		return expectLoadError(s, path, rom.ErrTooLarge)
	})
}

// imageSizes straddle the chunk size and the largest pool block.
var imageSizes = []int{1, 20, 4000, rom.ChunkSize - 1, rom.ChunkSize, rom.ChunkSize + 1, 32 << 10, rom.MaxSize}

func loadValid(env *Env) (Result, string) {
	return withLoader(env, func(s *rom.System, dir string) (Result, string) {
		rng := rand.New(rand.NewSource(env.Seed))
		res := Pass
		var note string
		for _, n := range imageSizes {
			path := filepath.Join(dir, fmt.Sprintf("image-%d.rom", n))
			want := make([]byte, n)
			rng.Read(want)
			if err := os.WriteFile(path, want, 0o644); err != nil {
				return fail("%v", err)
			}

			img, err := s.Loader.Load(path)
			if err != nil {
				return fail("%d bytes: %v", n, err)
			}
			if img.Size != n || !bytes.Equal(img.Data, want) {
				_ = img.Release()
				return fail("%d bytes: contents differ", n)
			}
			if !img.Aligned(rom.CacheLine) {
				_ = img.Release()
				return fail("%d bytes: data not %d-byte aligned", n, rom.CacheLine)
			}

			mapped, unmap, err := mmfile.Map(path, rom.MaxSize)
			if err != nil {
				res, note = Warn, fmt.Sprintf("mmap cross-check unavailable: %v", err)
			} else {
				same := bytes.Equal(mapped, img.Data)
				_ = unmap()
				if !same {
					_ = img.Release()
					return fail("%d bytes: loaded data differs from mapped file", n)
				}
			}
			if err := img.Release(); err != nil {
				return fail("%d bytes: release: %v", n, err)
			}
		}
		for _, ps := range s.Stats().Pool.Pools {
			if ps.FreeCount != ps.BlockCount {
				return fail("%d-byte pool leaked %d blocks", ps.BlockSize, ps.BlockCount-ps.FreeCount)
			}
		}
		if res == Warn {
			return res, note
		}
		return pass("%d images loaded and cross-checked", len(imageSizes))
	})
}
