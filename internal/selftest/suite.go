package selftest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joshuapare/sf2kmem/internal/logging"
)

// DefaultMaxCopy is the largest transfer MoveSuite checks by default.
const DefaultMaxCopy = 256

// Env carries settings shared by every case.
type Env struct {
	// Dir is where LoaderSuite creates scratch files. Default: os.TempDir().
	Dir string

	// MaxCopy bounds the transfer sizes MoveSuite sweeps. Default: DefaultMaxCopy.
	MaxCopy int

	// Seed drives the randomised pool sequences. Default: 1.
	Seed int64

	Logger *slog.Logger

	tally *tally
}

func (e *Env) withDefaults() *Env {
	out := Env{}
	if e != nil {
		out = *e
	}
	if out.MaxCopy <= 0 {
		out.MaxCopy = DefaultMaxCopy
	}
	if out.Seed == 0 {
		out.Seed = 1
	}
	out.Logger = logging.OrDiscard(out.Logger)
	return &out
}

// Case is one named check. Run returns its result and a short detail line.
type Case struct {
	Name string
	Run  func(env *Env) (Result, string)
}

// Suite groups related cases.
type Suite struct {
	Name  string
	Cases []Case
}

// CaseReport is the outcome of one case.
type CaseReport struct {
	Suite   string        `json:"suite"`
	Name    string        `json:"name"`
	Result  Result        `json:"result"`
	Detail  string        `json:"detail,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Summary counts case results.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Warned  int `json:"warned"`
}

func (s *Summary) add(r Result) {
	s.Total++
	switch r {
	case Pass:
		s.Passed++
	case Fail:
		s.Failed++
	case Skip:
		s.Skipped++
	case Warn:
		s.Warned++
	}
}

// Report is the outcome of a Run.
type Report struct {
	Result  Result        `json:"result"`
	Summary Summary       `json:"summary"`
	Cases   []CaseReport  `json:"cases"`
	Pool    PoolTotals    `json:"pool"`
	Started time.Time     `json:"started"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Run executes every case of every suite in order. Once ctx is done the
// remaining cases are reported as Skip. A panicking case is a Fail.
func Run(ctx context.Context, env *Env, suites ...Suite) Report {
	env = env.withDefaults()
	env.tally = &tally{}
	rep := Report{Started: time.Now()}
	for _, s := range suites {
		for _, c := range s.Cases {
			cr := CaseReport{Suite: s.Name, Name: c.Name}
			if err := ctx.Err(); err != nil {
				cr.Result, cr.Detail = Skip, err.Error()
			} else {
				start := time.Now()
				cr.Result, cr.Detail = runCase(c, env)
				cr.Elapsed = time.Since(start)
			}
			env.Logger.Debug("case finished", "suite", s.Name, "case", c.Name,
				"result", cr.Result, "elapsed", cr.Elapsed)
			rep.Cases = append(rep.Cases, cr)
			rep.Summary.add(cr.Result)
			rep.Result = worse(rep.Result, cr.Result)
		}
	}
	rep.Pool = env.tally.snapshot()
	rep.Elapsed = time.Since(rep.Started)
	return rep
}

func runCase(c Case, env *Env) (res Result, detail string) {
	defer func() {
		if r := recover(); r != nil {
			res, detail = Fail, fmt.Sprintf("panic: %v", r)
		}
	}()
	return c.Run(env)
}

// Failed returns the reports of failing cases.
func (r Report) Failed() []CaseReport {
	var out []CaseReport
	for _, c := range r.Cases {
		if c.Result == Fail {
			out = append(out, c)
		}
	}
	return out
}

// All returns the built-in suites.
func All() []Suite {
	return []Suite{PoolSuite(), MoveSuite(), LoaderSuite()}
}

func pass(format string, args ...any) (Result, string) { return Pass, fmt.Sprintf(format, args...) }
func fail(format string, args ...any) (Result, string) { return Fail, fmt.Sprintf(format, args...) }
