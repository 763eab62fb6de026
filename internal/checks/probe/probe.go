// Package probe implements the load-check phase: an acceptance test that the
// application's dependency graph resolves and its module-level singletons can
// be constructed. It proves loadability, not correctness of behavior.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/preflightci/preflight/internal/config"
	"github.com/preflightci/preflight/internal/source"
	"github.com/preflightci/preflight/pkg/check"
	"github.com/preflightci/preflight/pkg/registry"
)

// Finding codes of the load-check phase.
const (
	CodeLoadError     = "load-error"
	CodeMissingSymbol = "missing-symbol"
	CodeInitError     = "init-error"
	CodeNilSingleton  = "nil-singleton"
	CodeDrift         = "target-drift"
)

// Check probes each target in fixed order and aborts on the first failure;
// remaining targets are never attempted.
//
// Two probing strategies exist. When Registry is set and a target names a
// declared service, the provider is invoked directly (embedded mode).
// Otherwise the target package is loaded and type-checked and the
// conventionally-named symbol is looked up in its package scope.
type Check struct {
	Dir      string
	Targets  []config.Target
	Registry *registry.Registry
	Output   io.Writer
	Logger   *slog.Logger
}

// New creates the load-check for a source tree.
func New(dir string, targets []config.Target) *Check {
	return &Check{
		Dir:     dir,
		Targets: targets,
		Output:  os.Stdout,
	}
}

func (c *Check) Name() string  { return "load-check" }
func (c *Check) Title() string { return "Load checks" }

// Run walks the targets in order, emitting one labeled confirmation line per
// success. On any failure the result reports the failed target and the check
// stops immediately.
func (c *Check) Run(ctx context.Context) (*check.Result, error) {
	out := c.Output
	if out == nil {
		out = io.Discard
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var buf bytes.Buffer
	sink := io.MultiWriter(out, &buf)

	res := &check.Result{Status: check.StatusPassed}

	for _, target := range c.Targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Debug("probing target", "label", target.Label)

		var (
			detail string
			f      *check.Finding
		)
		if c.Registry != nil && target.Service != "" && declared(c.Registry, target.Service) {
			detail, f = c.probeProvider(ctx, target)
		} else {
			detail, f = c.probePackage(target)
		}

		if f != nil {
			res.Status = check.StatusFailed
			res.ExitCode = 1
			res.Err = fmt.Sprintf("%s: %s", target.Label, f.Message)
			res.Findings = append(res.Findings, *f)
			res.Output = buf.String()
			return res, nil
		}

		fmt.Fprintf(sink, "✅ %s loaded (%s)\n", target.Label, detail)
	}

	res.Findings = append(res.Findings, c.driftFindings()...)
	res.Output = buf.String()
	return res, nil
}

// probeProvider resolves the target through the service registry: the
// provider must succeed and return a non-nil singleton.
func (c *Check) probeProvider(ctx context.Context, target config.Target) (string, *check.Finding) {
	svc, err := c.Registry.Resolve(ctx, target.Service)
	if err != nil {
		return "", &check.Finding{
			Code:     CodeInitError,
			Message:  fmt.Sprintf("service %q failed to initialize: %v", target.Service, err),
			Severity: check.SeverityError,
		}
	}
	if svc == nil {
		return "", &check.Finding{
			Code:     CodeNilSingleton,
			Message:  fmt.Sprintf("service %q initialized to nil", target.Service),
			Severity: check.SeverityError,
		}
	}
	return "service " + target.Service, nil
}

// probePackage loads and type-checks the target package, then verifies the
// expected symbol is bound at package scope.
func (c *Check) probePackage(target config.Target) (string, *check.Finding) {
	pkgs, err := source.Load(c.Dir, target.Package)
	if err != nil {
		return "", &check.Finding{
			Code:     CodeLoadError,
			Message:  err.Error(),
			Severity: check.SeverityError,
		}
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		// Surface the loader's first diagnostic verbatim.
		perr := pkg.Errors[0]
		return "", &check.Finding{
			Code:     CodeLoadError,
			Message:  fmt.Sprintf("package %s does not load: %s", target.Package, perr.Msg),
			Position: perr.Pos,
			Severity: check.SeverityError,
		}
	}

	if pkg.Types == nil || pkg.Types.Scope().Lookup(target.Symbol) == nil {
		return "", &check.Finding{
			Code:     CodeMissingSymbol,
			Message:  fmt.Sprintf("package %s does not bind %q", target.Package, target.Symbol),
			Severity: check.SeverityError,
		}
	}

	return fmt.Sprintf("%s.%s", pkg.PkgPath, target.Symbol), nil
}

// driftFindings reports (advisory) registered services no target covers, so
// the harness and the application's own service registry cannot silently
// diverge.
func (c *Check) driftFindings() []check.Finding {
	if c.Registry == nil {
		return nil
	}

	targeted := make(map[string]bool, len(c.Targets))
	for _, t := range c.Targets {
		targeted[t.Service] = true
	}

	var findings []check.Finding
	for _, name := range c.Registry.Services() {
		if !targeted[name] {
			findings = append(findings, check.Finding{
				Code:     CodeDrift,
				Message:  fmt.Sprintf("service %q is registered but has no load-check target", name),
				Severity: check.SeverityWarning,
			})
		}
	}
	return findings
}

func declared(r *registry.Registry, name string) bool {
	for _, svc := range r.Services() {
		if svc == name {
			return true
		}
	}
	return false
}
