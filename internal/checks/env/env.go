// Package env implements the environment-preparation phase: the ordered,
// fail-fast execution of the dependency-refresh steps declared in the
// manifest. Each step is a child process run to completion; the first
// non-zero exit aborts the whole harness with that exit status.
package env

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/preflightci/preflight/internal/config"
	"github.com/preflightci/preflight/pkg/check"
)

// Check executes the environment-preparation steps.
type Check struct {
	// Dir is the working directory for every step (the target application root).
	Dir string

	// Steps is the fixed, ordered command list for this run.
	Steps []config.Step

	// Output receives the child processes' stdout/stderr verbatim.
	Output io.Writer

	// Logger is used for internal debug logging. If nil, a no-op logger is used.
	Logger *slog.Logger
}

// New creates the check for the given directory and steps.
func New(dir string, steps []config.Step) *Check {
	return &Check{
		Dir:    dir,
		Steps:  steps,
		Output: os.Stdout,
	}
}

func (c *Check) Name() string  { return "environment" }
func (c *Check) Title() string { return "Preparing environment" }

// Run executes each step in order. Step output is streamed through verbatim
// and also captured into the result. Mutating the local package environment
// is the point; steps are expected to be idempotent across runs.
func (c *Check) Run(ctx context.Context) (*check.Result, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	out := c.Output
	if out == nil {
		out = io.Discard
	}

	var captured bytes.Buffer
	sink := io.MultiWriter(out, &captured)

	res := &check.Result{Status: check.StatusPassed}

	for _, step := range c.Steps {
		fmt.Fprintf(sink, "→ %s\n", step.Description)
		logger.Debug("env step", "command", step.Command, "args", step.Args)

		cmd := exec.CommandContext(ctx, step.Command, step.Args...)
		cmd.Dir = c.Dir
		cmd.Stdout = sink
		cmd.Stderr = sink
		cmd.Env = os.Environ()
		for k, v := range step.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}

		if err := cmd.Run(); err != nil {
			code := 1
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			}

			res.Status = check.StatusFailed
			res.ExitCode = code
			res.Err = fmt.Sprintf("%s: %v", step.Description, err)
			res.Output = captured.String()
			res.Findings = append(res.Findings, check.Finding{
				Code:     "ENV",
				Message:  res.Err,
				Severity: check.SeverityError,
			})
			return res, nil
		}
	}

	res.Output = captured.String()
	return res, nil
}
