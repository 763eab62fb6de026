package preflight

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/preflightci/preflight/internal/checks/env"
	"github.com/preflightci/preflight/internal/checks/lint"
	"github.com/preflightci/preflight/internal/checks/probe"
	"github.com/preflightci/preflight/internal/config"
	"github.com/preflightci/preflight/internal/presentation/tui"
	"github.com/preflightci/preflight/pkg/check"
	"github.com/preflightci/preflight/pkg/registry"
)

// Harness is the high-level entry point for the preflight library.
// It assembles the fixed check pipeline for one target directory and runs it.
type Harness struct {
	dir      string
	manifest config.Manifest
	loaded   bool
	registry *registry.Registry
	hooks    check.LifecycleHooks
	logger   *slog.Logger
	output   io.Writer
	Name     string
}

// Option defines a functional option for configuring the Harness.
type Option func(*Harness)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks check.LifecycleHooks) Option {
	return func(h *Harness) {
		h.hooks = hooks
	}
}

// WithManifest injects a manifest, bypassing the preflight.yaml lookup.
func WithManifest(m config.Manifest) Option {
	return func(h *Harness) {
		h.manifest = m
		h.loaded = true
	}
}

// WithRegistry sets the service registry probed in embedded mode.
func WithRegistry(r *registry.Registry) Option {
	return func(h *Harness) {
		h.registry = r
	}
}

// WithLogger sets a custom structured logger for the harness.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// WithOutput redirects the check output (banners, diagnostics, confirmations).
func WithOutput(w io.Writer) Option {
	return func(h *Harness) {
		h.output = w
	}
}

// New initializes a Harness for the application rooted at dir.
// The manifest is read from preflight.yaml in that directory unless
// WithManifest is provided; a missing manifest means built-in defaults.
func New(dir string, opts ...Option) (*Harness, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	h := &Harness{
		dir:  absPath,
		Name: filepath.Base(absPath),
	}

	for _, opt := range opts {
		opt(h)
	}

	if !h.loaded {
		manifest, err := config.Load(absPath)
		if err != nil {
			return nil, err
		}
		h.manifest = manifest
	}

	// Ensure logger is initialized so we never hand nil down to the checks.
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	h.logger = h.logger.With("app", h.Name)

	if h.output == nil {
		h.output = os.Stdout
	}

	return h, nil
}

// Manifest returns the effective configuration for this harness.
func (h *Harness) Manifest() config.Manifest {
	return h.manifest
}

// Checks builds the pipeline in its fixed order: environment preparation,
// strict lint, advisory lint, load checks.
func (h *Harness) Checks() []check.Check {
	envCheck := env.New(h.dir, h.manifest.Steps)
	envCheck.Output = h.output
	envCheck.Logger = h.logger

	strict := lint.NewStrict(h.dir)
	strict.Output = h.output
	strict.Logger = h.logger

	advisory := lint.NewAdvisory(h.dir, h.manifest.Lint.MaxComplexity, h.manifest.Lint.MaxLineLength)
	advisory.Output = h.output
	advisory.Logger = h.logger

	probes := probe.New(h.dir, h.manifest.Targets)
	probes.Output = h.output
	probes.Logger = h.logger
	probes.Registry = h.registry

	return []check.Check{envCheck, strict, advisory, probes}
}

// Run executes the pipeline and returns its report.
// The error return is reserved for infrastructure failures; check failures
// are reported through the Report (see Report.ExitCode).
func (h *Harness) Run(ctx context.Context) (*check.Report, error) {
	runner := check.NewRunner()
	runner.Output = h.output
	runner.Logger = h.logger
	runner.Hooks = h.hooks
	runner.Banner = tui.PhaseBanner

	return runner.Run(ctx, h.Checks()...)
}
