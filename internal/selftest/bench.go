package selftest

import (
	"context"
	"time"

	"github.com/joshuapare/sf2kmem/mem/move"
	"github.com/joshuapare/sf2kmem/mem/pool"
)

// BenchOptions configures Bench.
type BenchOptions struct {
	Duration time.Duration // Time spent per benchmark. Default: 200ms
	Size     int           // Transfer size in bytes. Default: move.PageSize
}

// BenchResult is one benchmark measurement.
type BenchResult struct {
	Name    string  `json:"name"`
	Ops     int     `json:"ops"`
	NsPerOp float64 `json:"ns_per_op"`
	MBps    float64 `json:"mb_per_s,omitempty"` // zero for allocation benchmarks
}

type benchFn struct {
	name  string
	bytes int
	run   func()
}

// Bench times the movers against the builtin copy, and pool allocation
// against the fallback heap. It stops early when ctx is done, returning the
// measurements taken so far.
func Bench(ctx context.Context, opts BenchOptions) ([]BenchResult, error) {
	if opts.Duration <= 0 {
		opts.Duration = 200 * time.Millisecond
	}
	if opts.Size <= 0 {
		opts.Size = move.PageSize
	}
	n := opts.Size
	src, dst := arena(n)[:n], arena(n)[:n]
	for i := range src {
		src[i] = byte(i)
	}

	a, err := pool.New(nil)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	heap := &pool.HeapFallback{}

	fns := []benchFn{
		{"builtin copy", n, func() { copy(dst, src) }},
		{"move.Copy", n, func() { move.Copy(dst, src) }},
		{"move.BurstCopy", n, func() { move.BurstCopy(dst, src) }},
		{"move.Fill", n, func() { move.Fill(dst, 0x55) }},
		{"move.Prefetch", n, func() { move.Prefetch(src) }},
		{"pool alloc/free 64", 0, func() { _ = a.Free(a.Allocate(64)) }},
		{"heap alloc/free 64", 0, func() { _ = heap.Free(heap.Alloc(64)) }},
	}

	var out []BenchResult
	for _, f := range fns {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out = append(out, measure(f, opts.Duration))
	}
	return out, nil
}

// measure runs f in doubling batches until d has elapsed.
func measure(f benchFn, d time.Duration) BenchResult {
	ops := 0
	batch := 1
	start := time.Now()
	var elapsed time.Duration
	for elapsed < d {
		for range batch {
			f.run()
		}
		ops += batch
		if batch < 1<<20 {
			batch *= 2
		}
		elapsed = time.Since(start)
	}
	r := BenchResult{Name: f.name, Ops: ops, NsPerOp: float64(elapsed.Nanoseconds()) / float64(ops)}
	if f.bytes > 0 {
		r.MBps = float64(f.bytes) * float64(ops) / elapsed.Seconds() / 1e6
	}
	return r
}
