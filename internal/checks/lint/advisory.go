package lint

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"io"
	"log/slog"
	"os"

	"golang.org/x/tools/go/packages"

	"github.com/preflightci/preflight/internal/source"
	"github.com/preflightci/preflight/pkg/check"
)

// Finding codes of the advisory pass.
const (
	CodeComplexity = "function-too-complex"
	CodeLineLength = "line-too-long"
)

// AdvisoryCheck surfaces complexity and line-length statistics.
// It is configured never to fail the run regardless of findings: subjective
// style metrics must not block local iteration.
type AdvisoryCheck struct {
	Dir           string
	MaxComplexity int
	MaxLineLength int
	Output        io.Writer
	Logger        *slog.Logger
}

// NewAdvisory creates the advisory pass with the given thresholds.
func NewAdvisory(dir string, maxComplexity, maxLineLength int) *AdvisoryCheck {
	return &AdvisoryCheck{
		Dir:           dir,
		MaxComplexity: maxComplexity,
		MaxLineLength: maxLineLength,
		Output:        os.Stdout,
	}
}

func (c *AdvisoryCheck) Name() string  { return "lint-advisory" }
func (c *AdvisoryCheck) Title() string { return "Static checks (advisory)" }

// Run loads the tree independently of the strict pass and reports statistics.
// The result status is always Passed.
func (c *AdvisoryCheck) Run(ctx context.Context) (*check.Result, error) {
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
	seen := make(map[string]bool)
	for _, pkg := range pkgs {
		findings = append(findings, c.checkComplexity(pkg)...)
		for _, file := range pkg.CompiledGoFiles {
			if seen[file] {
				continue
			}
			seen[file] = true
			fs, err := c.checkLineLength(file)
			if err != nil {
				return nil, err
			}
			findings = append(findings, fs...)
		}
	}

	var buf bytes.Buffer
	sink := io.MultiWriter(out, &buf)
	for _, f := range findings {
		fmt.Fprintln(sink, f.String())
	}
	fmt.Fprintf(sink, "advisory: %d findings (not blocking)\n", len(findings))

	return &check.Result{
		Status:   check.StatusPassed,
		Findings: findings,
		Output:   buf.String(),
	}, nil
}

func (c *AdvisoryCheck) checkComplexity(pkg *packages.Package) []check.Finding {
	var findings []check.Finding
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if ok && fn.Body != nil {
				n := complexity(fn)
				if n > c.MaxComplexity {
					pos := pkg.Fset.Position(fn.Pos())
					findings = append(findings, check.Finding{
						Code: CodeComplexity,
						Message: fmt.Sprintf("%s has cyclomatic complexity %d (max %d)",
							funcName(fn), n, c.MaxComplexity),
						Position: pos.String(),
						Severity: check.SeverityWarning,
					})
				}
			}
		}
	}
	return findings
}

// complexity computes the cyclomatic complexity of a function: 1 plus one per
// branching construct and short-circuit operator.
func complexity(fn *ast.FuncDecl) int {
	n := 1
	ast.Inspect(fn, func(node ast.Node) bool {
		switch v := node.(type) {
		case *ast.IfStmt, *ast.ForStmt, *ast.RangeStmt, *ast.CaseClause, *ast.CommClause:
			n++
		case *ast.BinaryExpr:
			if v.Op == token.LAND || v.Op == token.LOR {
				n++
			}
		}
		return true
	})
	return n
}

func funcName(fn *ast.FuncDecl) string {
	if fn.Recv != nil && len(fn.Recv.List) > 0 {
		if t := recvTypeName(fn.Recv.List[0].Type); t != "" {
			return t + "." + fn.Name.Name
		}
	}
	return fn.Name.Name
}

func recvTypeName(expr ast.Expr) string {
	switch v := expr.(type) {
	case *ast.Ident:
		return v.Name
	case *ast.StarExpr:
		return recvTypeName(v.X)
	case *ast.IndexExpr:
		return recvTypeName(v.X)
	}
	return ""
}

func (c *AdvisoryCheck) checkLineLength(path string) ([]check.Finding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	var findings []check.Finding
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		width := len([]rune(scanner.Text()))
		if width > c.MaxLineLength {
			findings = append(findings, check.Finding{
				Code:     CodeLineLength,
				Message:  fmt.Sprintf("line is %d characters (max %d)", width, c.MaxLineLength),
				Position: fmt.Sprintf("%s:%d", path, line),
				Severity: check.SeverityWarning,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}
	return findings, nil
}
