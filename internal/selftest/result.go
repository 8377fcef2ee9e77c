// Package selftest runs the built-in diagnostic suites against the pool
// allocator, the bulk mover and the ROM loader, and renders their reports.
package selftest

import "fmt"

// Result is the outcome of a case. Larger values are worse.
type Result int

const (
	Pass Result = iota
	Skip
	Warn
	Fail
)

var resultNames = [...]string{"PASS", "SKIP", "WARN", "FAIL"}

func (r Result) String() string {
	if r < 0 || int(r) >= len(resultNames) {
		return fmt.Sprintf("Result(%d)", int(r))
	}
	return resultNames[r]
}

// MarshalText encodes r by name.
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a name produced by MarshalText.
func (r *Result) UnmarshalText(b []byte) error {
	for i, name := range resultNames {
		if string(b) == name {
			*r = Result(i)
			return nil
		}
	}
	return fmt.Errorf("selftest: unknown result %q", b)
}

// worse returns the more severe of a and b.
func worse(a, b Result) Result {
	return max(a, b)
}
