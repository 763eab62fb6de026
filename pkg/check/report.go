package check

import "time"

// State tracks a harness invocation as a whole. Failed is absorbing: once a
// check fails no further transition happens.
type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Report is the ordered record of one harness invocation.
// It exists only for the lifetime of that invocation; nothing is persisted.
type Report struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	State      State     `json:"state"`
	Results    []*Result `json:"results"`
}

// Failed reports whether any executed check failed.
func (r *Report) Failed() bool {
	return r.State == StateFailed
}

// ExitCode derives the process exit status: 0 when everything passed,
// otherwise the code propagated by the first failing check.
func (r *Report) ExitCode() int {
	for _, res := range r.Results {
		if res.Failed() {
			if res.ExitCode != 0 {
				return res.ExitCode
			}
			return 1
		}
	}
	return 0
}

// Result returns the result for a named check, or nil if it never ran.
func (r *Report) Result(name string) *Result {
	for _, res := range r.Results {
		if res.Check == name {
			return res
		}
	}
	return nil
}

// Warnings counts advisory findings across all executed checks.
func (r *Report) Warnings() int {
	n := 0
	for _, res := range r.Results {
		for _, f := range res.Findings {
			if f.Severity == SeverityWarning {
				n++
			}
		}
	}
	return n
}
