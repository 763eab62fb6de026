package check

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// BannerFunc prints the labeled banner announcing a phase.
type BannerFunc func(w io.Writer, title string)

// Runner executes checks strictly in sequence on a single goroutine.
// The contract is "continue on success, abort on first failure": the first
// failing check terminates the run and the remaining checks never start.
type Runner struct {
	// Output receives banners and check diagnostics. Defaults to Stdout.
	Output io.Writer

	// Logger is used for internal debug logging. If nil, a no-op logger is used.
	Logger *slog.Logger

	// Hooks receive lifecycle events for observability.
	Hooks LifecycleHooks

	// Banner renders the per-phase banner. If nil, a plain text banner is used.
	Banner BannerFunc
}

// NewRunner creates a Runner with default Stdout output.
func NewRunner() *Runner {
	return &Runner{
		Output: os.Stdout,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func plainBanner(w io.Writer, title string) {
	fmt.Fprintf(w, "\n=== %s ===\n", title)
}

// Run executes the given checks in order and returns the report.
// A failing check stops the run; its diagnostics are the last thing printed.
// The error return is reserved for infrastructure failures; check failures
// are reported through the Report only.
func (r *Runner) Run(ctx context.Context, checks ...Check) (*Report, error) {
	out := r.Output
	if out == nil {
		out = os.Stdout
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	banner := r.Banner
	if banner == nil {
		banner = plainBanner
	}

	report := &Report{
		StartedAt: time.Now(),
		State:     StateRunning,
	}

	for _, c := range checks {
		if err := ctx.Err(); err != nil {
			report.State = StateFailed
			report.FinishedAt = time.Now()
			return report, err
		}

		banner(out, c.Title())
		logger.Debug("check start", "check", c.Name())
		r.Hooks.fireStart(ctx, c)

		start := time.Now()
		res, err := c.Run(ctx)
		if err != nil {
			// Infrastructure failure. Synthesize a failed result so the
			// report still accounts for the check, then surface the error.
			res = &Result{
				Check:    c.Name(),
				Title:    c.Title(),
				Status:   StatusFailed,
				Err:      err.Error(),
				ExitCode: 1,
			}
		}
		if res.Duration == 0 {
			res.Duration = time.Since(start)
		}
		res.Check = c.Name()
		res.Title = c.Title()

		report.Results = append(report.Results, res)
		r.Hooks.fireEnd(ctx, res)
		logger.Debug("check end", "check", c.Name(), "status", res.Status, "findings", len(res.Findings))

		if res.Failed() {
			if res.Err != "" {
				fmt.Fprintf(out, "✗ %s: %s\n", c.Title(), res.Err)
			} else {
				fmt.Fprintf(out, "✗ %s failed (%d findings)\n", c.Title(), len(res.Errors()))
			}
			report.State = StateFailed
			report.FinishedAt = time.Now()
			if err != nil {
				return report, err
			}
			return report, nil
		}
	}

	report.State = StateDone
	report.FinishedAt = time.Now()
	return report, nil
}
