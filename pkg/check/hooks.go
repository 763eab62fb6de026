package check

import (
	"context"
	"time"
)

// CheckEvent describes one check crossing a lifecycle boundary.
type CheckEvent struct {
	Check    string
	Title    string
	Status   Status
	Duration time.Duration
}

// FindingEvent is emitted once per finding as a check produces it.
type FindingEvent struct {
	Check   string
	Finding Finding
}

// LifecycleHooks lets hosts observe the run without coupling the runner to a
// metrics or logging backend. Nil hooks are skipped.
type LifecycleHooks struct {
	OnCheckStart func(ctx context.Context, e *CheckEvent)
	OnCheckEnd   func(ctx context.Context, e *CheckEvent)
	OnFinding    func(ctx context.Context, e *FindingEvent)
}

// Join merges hook sets; every registered hook fires, in argument order.
func Join(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnCheckStart: func(ctx context.Context, e *CheckEvent) {
			for _, h := range hooks {
				if h.OnCheckStart != nil {
					h.OnCheckStart(ctx, e)
				}
			}
		},
		OnCheckEnd: func(ctx context.Context, e *CheckEvent) {
			for _, h := range hooks {
				if h.OnCheckEnd != nil {
					h.OnCheckEnd(ctx, e)
				}
			}
		},
		OnFinding: func(ctx context.Context, e *FindingEvent) {
			for _, h := range hooks {
				if h.OnFinding != nil {
					h.OnFinding(ctx, e)
				}
			}
		},
	}
}

func (h LifecycleHooks) fireStart(ctx context.Context, c Check) {
	if h.OnCheckStart != nil {
		h.OnCheckStart(ctx, &CheckEvent{Check: c.Name(), Title: c.Title()})
	}
}

func (h LifecycleHooks) fireEnd(ctx context.Context, res *Result) {
	if h.OnCheckEnd != nil {
		h.OnCheckEnd(ctx, &CheckEvent{
			Check:    res.Check,
			Title:    res.Title,
			Status:   res.Status,
			Duration: res.Duration,
		})
	}
	if h.OnFinding != nil {
		for _, f := range res.Findings {
			h.OnFinding(ctx, &FindingEvent{Check: res.Check, Finding: f})
		}
	}
}
