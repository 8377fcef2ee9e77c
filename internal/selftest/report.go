package selftest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/sf2kmem/mem/pool"
)

// TextOptions controls text rendering.
type TextOptions struct {
	Color   bool // ANSI colour result tags
	Verbose bool // list passing cases too
}

var resultColors = [...]lipgloss.Color{Pass: "2", Skip: "8", Warn: "3", Fail: "1"}

// tagger renders result names, coloured when Color is set.
type tagger struct {
	styles [len(resultColors)]lipgloss.Style
}

func newTagger(w io.Writer, opts TextOptions) *tagger {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.Ascii)
	if opts.Color {
		r.SetColorProfile(termenv.ANSI)
	}
	t := &tagger{}
	for i, c := range resultColors {
		t.styles[i] = r.NewStyle().Foreground(c)
	}
	return t
}

func (t *tagger) tag(r Result) string {
	if r < 0 || int(r) >= len(t.styles) {
		return r.String()
	}
	return t.styles[r].Render(r.String())
}

func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// WriteText renders r as a human readable listing.
func (r Report) WriteText(w io.Writer, opts TextOptions) error {
	p := printer()
	tg := newTagger(w, opts)
	suite := ""
	for _, c := range r.Cases {
		if !opts.Verbose && c.Result == Pass {
			continue
		}
		if c.Suite != suite {
			suite = c.Suite
			if _, err := p.Fprintf(w, "%s\n", suite); err != nil {
				return err
			}
		}
		line := fmt.Sprintf("  [%s] %s", tg.tag(c.Result), c.Name)
		if c.Detail != "" {
			line += ": " + c.Detail
		}
		if _, err := p.Fprintf(w, "%s (%v)\n", line, c.Elapsed.Round(time.Microsecond)); err != nil {
			return err
		}
	}
	if pt := r.Pool; pt.Allocators > 0 {
		if _, err := p.Fprintf(w, "allocators %d: pool %d/%d, fallback %d/%d, failed %d, foreign %d, double frees %d, unreleased blocks %d\n",
			pt.Allocators, pt.PoolAllocs, pt.PoolFrees, pt.FallbackAllocs, pt.FallbackFrees,
			pt.FallbackFails, pt.ForeignFrees, pt.DoubleFrees, pt.Unreleased); err != nil {
			return err
		}
	}
	s := r.Summary
	_, err := p.Fprintf(w, "%s: %d cases, %d passed, %d failed, %d warned, %d skipped in %v\n",
		tg.tag(r.Result), s.Total, s.Passed, s.Failed, s.Warned, s.Skipped, r.Elapsed.Round(time.Millisecond))
	return err
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WritePools renders one row per pool followed by allocator totals.
func WritePools(w io.Writer, s pool.Stats) error {
	p := printer()
	if _, err := p.Fprintf(w, "%8s %8s %8s %8s  %-18s %s\n", "BLOCK", "COUNT", "FREE", "IN USE", "START", "STATE"); err != nil {
		return err
	}
	for _, ps := range s.Pools {
		state := "ok"
		if !ps.Usable {
			state = "disabled"
		}
		if _, err := p.Fprintf(w, "%8d %8d %8d %8d  %#-18x %s\n",
			ps.BlockSize, ps.BlockCount, ps.FreeCount, ps.InUse, ps.Start, state); err != nil {
			return err
		}
	}
	_, err := p.Fprintf(w, "reserved %d bytes, in use %d bytes (%.1f%%); pool %d/%d, fallback %d/%d, failed %d, foreign %d, double frees %d\n",
		s.ReservedBytes(), s.InUseBytes(), 100*s.Utilization(),
		s.PoolAllocs, s.PoolFrees, s.FallbackAllocs, s.FallbackFrees, s.FallbackFails, s.ForeignFrees, s.DoubleFrees)
	return err
}

// WriteBench renders benchmark results as a table.
func WriteBench(w io.Writer, results []BenchResult) error {
	p := printer()
	if _, err := p.Fprintf(w, "%-20s %14s %12s %12s\n", "BENCHMARK", "OPS", "NS/OP", "MB/S"); err != nil {
		return err
	}
	for _, r := range results {
		mb := "-"
		if r.MBps > 0 {
			mb = p.Sprintf("%.1f", r.MBps)
		}
		if _, err := p.Fprintf(w, "%-20s %14d %12.1f %12s\n", r.Name, r.Ops, r.NsPerOp, mb); err != nil {
			return err
		}
	}
	return nil
}

// DumpState is the document Dump writes.
type DumpState struct {
	Generated time.Time `json:"generated"`
	Report    Report    `json:"report"`
}

// Dump writes the report, including the run's allocator totals, to path as JSON.
func Dump(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("selftest: dump: %w", err)
	}
	werr := WriteJSON(f, DumpState{Generated: time.Now().UTC(), Report: r})
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("selftest: dump %s: %w", path, werr)
	}
	return nil
}
