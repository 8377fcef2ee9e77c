package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/sf2kmem/internal/selftest"
)

var (
	selftestDump  string
	selftestSizes int
	selftestSeed  int64
	selftestOnly  []string
)

var errSelftestFailed = errors.New("self test failed")

func init() {
	cmd := newSelftestCmd()
	cmd.Flags().StringVar(&selftestDump, "dump", "", "Write a JSON state dump to `file`")
	cmd.Flags().IntVar(&selftestSizes, "sizes", selftest.DefaultMaxCopy, "Largest transfer size the mover sweep checks")
	cmd.Flags().Int64Var(&selftestSeed, "seed", 1, "Seed for randomised allocation sequences")
	cmd.Flags().StringSliceVar(&selftestOnly, "suite", nil, "Run only the named suites (pool, move, loader)")
	rootCmd.AddCommand(cmd)
}

func newSelftestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Run the built-in diagnostic suites",
		Long: `The selftest command checks block conservation, aliasing and first-fit
selection of the pool allocator, sweeps the bulk mover over every alignment,
and loads scratch ROM images. It exits non-zero if any case fails.

Example:
  sf2kctl selftest
  sf2kctl selftest --suite move --sizes 4096
  sf2kctl selftest --dump state.json --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelftest(cmd.Context())
		},
	}
}

func selectSuites(names []string) ([]selftest.Suite, error) {
	all := selftest.All()
	if len(names) == 0 {
		return all, nil
	}
	var out []selftest.Suite
	for _, name := range names {
		found := false
		for _, s := range all {
			if s.Name == name {
				out = append(out, s)
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown suite %q", name)
		}
	}
	return out, nil
}

func runSelftest(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	suites, err := selectSuites(selftestOnly)
	if err != nil {
		return err
	}

	env := &selftest.Env{MaxCopy: selftestSizes, Seed: selftestSeed, Logger: newLogger()}
	printVerbose("Running %d suites (mover sweep to %d bytes)\n", len(suites), env.MaxCopy)
	rep := selftest.Run(ctx, env, suites...)

	if selftestDump != "" {
		if err := selftest.Dump(selftestDump, rep); err != nil {
			return err
		}
		printVerbose("State written to %s\n", selftestDump)
	}

	if jsonOut {
		if err := printJSON(rep); err != nil {
			return err
		}
	} else if !quiet {
		if err := rep.WriteText(os.Stdout, selftest.TextOptions{Color: useColor(), Verbose: verbose}); err != nil {
			return err
		}
	}
	if rep.Result == selftest.Fail {
		return fmt.Errorf("%w: %d of %d cases", errSelftestFailed, rep.Summary.Failed, rep.Summary.Total)
	}
	return nil
}
