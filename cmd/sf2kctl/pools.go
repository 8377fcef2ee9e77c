package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/sf2kmem/internal/selftest"
	"github.com/joshuapare/sf2kmem/mem/pool"
)

var (
	poolsClasses   string
	poolsCacheLine int
	poolsMmap      bool
)

func init() {
	cmd := newPoolsCmd()
	cmd.Flags().StringVar(&poolsClasses, "classes", "", "Size classes as SIZExCOUNT,... (default: stock table)")
	cmd.Flags().IntVar(&poolsCacheLine, "cache-line", pool.DefaultCacheLine, "Pool span alignment")
	cmd.Flags().BoolVar(&poolsMmap, "mmap", false, "Back pools with anonymous mappings")
	rootCmd.AddCommand(cmd)
}

func newPoolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pools",
		Short: "Reserve a pool set and print its layout",
		Long: `The pools command builds an allocator from the stock size classes, or
from --classes, and prints each pool's block size, count and span.

Example:
  sf2kctl pools
  sf2kctl pools --classes 16x64,256x8 --cache-line 64
  sf2kctl pools --mmap --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPools()
		},
	}
}

// parseClasses parses "32x256,64x128" into size classes.
func parseClasses(s string) ([]pool.SizeClass, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []pool.SizeClass
	for _, part := range strings.Split(s, ",") {
		size, count, ok := strings.Cut(strings.TrimSpace(part), "x")
		if !ok {
			return nil, fmt.Errorf("class %q: want SIZExCOUNT", part)
		}
		bs, err := strconv.Atoi(size)
		if err != nil {
			return nil, fmt.Errorf("class %q: block size: %w", part, err)
		}
		bc, err := strconv.Atoi(count)
		if err != nil {
			return nil, fmt.Errorf("class %q: block count: %w", part, err)
		}
		out = append(out, pool.SizeClass{BlockSize: bs, BlockCount: bc})
	}
	return out, nil
}

func runPools() error {
	classes, err := parseClasses(poolsClasses)
	if err != nil {
		return err
	}
	cfg := &pool.Config{Classes: classes, CacheLine: poolsCacheLine, Logger: newLogger()}
	if poolsMmap {
		cfg.Reserver = &pool.MmapReserver{}
	}
	a, err := pool.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if jsonOut {
		return printJSON(a.Stats())
	}
	if quiet {
		return nil
	}
	printVerbose("Cache line: %d bytes\n", a.CacheLine())
	return selftest.WritePools(os.Stdout, a.Stats())
}
