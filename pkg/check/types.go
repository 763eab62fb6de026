package check

import (
	"context"
	"fmt"
	"time"
)

// Severity classifies a finding.
type Severity string

const (
	// SeverityError findings fail the check that produced them.
	SeverityError Severity = "error"
	// SeverityWarning findings are surfaced but never fail a run.
	SeverityWarning Severity = "warning"
)

// Status is the terminal state of a single check execution.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Finding is one diagnostic produced by a check, anchored to a source
// position when the check operates on the source tree.
type Finding struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Position string   `json:"position,omitempty"`
	Severity Severity `json:"severity"`
}

func (f Finding) String() string {
	if f.Position != "" {
		return fmt.Sprintf("%s: %s %s", f.Position, f.Code, f.Message)
	}
	return fmt.Sprintf("%s %s", f.Code, f.Message)
}

// Result is the outcome of one check execution.
// Output carries the underlying tool's diagnostics verbatim; failures are not
// reformatted or summarized beyond the Err line.
type Result struct {
	Check    string        `json:"check"`
	Title    string        `json:"title"`
	Status   Status        `json:"status"`
	Findings []Finding     `json:"findings,omitempty"`
	Output   string        `json:"output,omitempty"`
	Err      string        `json:"error,omitempty"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration_ns"`
}

// Failed reports whether the result aborts the run.
func (r *Result) Failed() bool {
	return r.Status == StatusFailed
}

// Errors returns the findings that carry SeverityError.
func (r *Result) Errors() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}

// Check is the uniform run-and-report capability every phase implements.
// Run returns a non-nil Result describing the outcome; the error return is
// reserved for infrastructure failures (context cancellation, IO errors), not
// for check findings.
type Check interface {
	// Name is a stable machine identifier (metric label, report key).
	Name() string
	// Title is the human-readable banner line for the phase.
	Title() string
	Run(ctx context.Context) (*Result, error)
}
