// Package lint implements the static-checker phase as two independent passes
// over the full source tree: a strict pass whose findings are fatal (syntax
// errors, undefined names, malformed format strings) and an advisory pass
// (complexity, line length) that reports statistics without ever failing the
// run.
package lint

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/preflightci/preflight/internal/source"
	"github.com/preflightci/preflight/pkg/check"
)

// Finding codes of the strict pass.
const (
	CodeSyntax    = "syntax-error"
	CodeUndefined = "undefined-name"
	CodeFormat    = "format-string"
)

// StrictCheck is the zero-tolerance correctness pass. Any finding aborts the
// harness; the rule set is deliberately narrow so subjective style can never
// block a run here.
type StrictCheck struct {
	Dir    string
	Output io.Writer
	Logger *slog.Logger
}

// NewStrict creates the strict pass for a source tree.
func NewStrict(dir string) *StrictCheck {
	return &StrictCheck{Dir: dir, Output: os.Stdout}
}

func (c *StrictCheck) Name() string  { return "lint-strict" }
func (c *StrictCheck) Title() string { return "Static checks (strict)" }

// Run loads the tree and collects fatal defects. Diagnostics are printed with
// their source positions, followed by the violation count.
func (c *StrictCheck) Run(ctx context.Context) (*check.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := c.Output
	if out == nil {
		out = io.Discard
	}

	pkgs, err := source.Load(c.Dir)
	if err != nil {
		return nil, err
	}

	var findings []check.Finding
	for _, pkg := range pkgs {
		findings = append(findings, collectFatal(pkg)...)
		findings = append(findings, checkFormatStrings(pkg)...)
	}

	var buf bytes.Buffer
	sink := io.MultiWriter(out, &buf)

	res := &check.Result{Status: check.StatusPassed, Findings: findings}
	if len(findings) > 0 {
		for _, f := range findings {
			fmt.Fprintln(sink, f.String())
		}
		fmt.Fprintf(sink, "%d fatal problems found\n", len(findings))
		res.Status = check.StatusFailed
		res.ExitCode = 1
		res.Err = fmt.Sprintf("%d fatal problems found", len(findings))
	} else {
		fmt.Fprintln(sink, "no fatal problems found")
	}
	res.Output = buf.String()
	return res, nil
}

// collectFatal filters a package's load diagnostics down to the strict rule
// set: parse errors and undefined names. Other type errors are left to the
// load-check phase, which reports them against the target that owns them.
func collectFatal(pkg *packages.Package) []check.Finding {
	var findings []check.Finding
	for _, perr := range pkg.Errors {
		switch {
		case perr.Kind == packages.ParseError:
			findings = append(findings, check.Finding{
				Code:     CodeSyntax,
				Message:  trimPosPrefix(perr.Msg, perr.Pos),
				Position: perr.Pos,
				Severity: check.SeverityError,
			})
		case perr.Kind == packages.TypeError && isUndefined(perr.Msg):
			findings = append(findings, check.Finding{
				Code:     CodeUndefined,
				Message:  trimPosPrefix(perr.Msg, perr.Pos),
				Position: perr.Pos,
				Severity: check.SeverityError,
			})
		}
	}
	return findings
}

func isUndefined(msg string) bool {
	return strings.Contains(msg, "undefined:") || strings.Contains(msg, "undeclared name:")
}

// trimPosPrefix drops a leading "file:line:col:" echo some diagnostics carry,
// since the position is reported separately.
func trimPosPrefix(msg, pos string) string {
	if pos != "" && strings.HasPrefix(msg, pos) {
		msg = strings.TrimPrefix(msg, pos)
		msg = strings.TrimPrefix(msg, ":")
		msg = strings.TrimSpace(msg)
	}
	return msg
}
