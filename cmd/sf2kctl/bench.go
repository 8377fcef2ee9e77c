package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/sf2kmem/internal/selftest"
	"github.com/joshuapare/sf2kmem/mem/move"
)

var (
	benchDuration time.Duration
	benchSize     int
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().DurationVar(&benchDuration, "duration", 200*time.Millisecond, "Time spent per benchmark")
	cmd.Flags().IntVar(&benchSize, "size", move.PageSize, "Transfer size in bytes")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Time the bulk mover and the pool allocator",
		Long: `The bench command compares the word and burst movers against the
builtin copy, and pool allocation against the heap fallback.

Example:
  sf2kctl bench
  sf2kctl bench --size 32768 --duration 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd.Context())
		},
	}
}

func runBench(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	printVerbose("Benchmarking %d-byte transfers for %v each\n", benchSize, benchDuration)
	results, err := selftest.Bench(ctx, selftest.BenchOptions{Duration: benchDuration, Size: benchSize})
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(results)
	}
	if quiet {
		return nil
	}
	return selftest.WriteBench(os.Stdout, results)
}
