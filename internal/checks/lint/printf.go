package lint

import (
	"fmt"
	"go/ast"
	"strconv"

	"golang.org/x/tools/go/packages"

	"github.com/preflightci/preflight/pkg/check"
)

// formatFuncs maps Printf-family function names to the index of their format
// argument. Only calls qualified by the fmt or log packages are checked.
var formatFuncs = map[string]int{
	"Printf":  0,
	"Sprintf": 0,
	"Errorf":  0,
	"Fprintf": 1,
	"Fatalf":  0,
	"Panicf":  0,
}

// checkFormatStrings flags calls whose constant format string consumes a
// different number of operands than the call supplies. Calls spreading a
// slice (f(args...)) and non-constant formats are skipped; this is a smoke
// check, not a full printf analyzer.
func checkFormatStrings(pkg *packages.Package) []check.Finding {
	var findings []check.Finding

	for _, file := range pkg.Syntax {
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok || call.Ellipsis.IsValid() {
				return true
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			qual, ok := sel.X.(*ast.Ident)
			if !ok || (qual.Name != "fmt" && qual.Name != "log") {
				return true
			}
			fmtIdx, ok := formatFuncs[sel.Sel.Name]
			if !ok || len(call.Args) <= fmtIdx {
				return true
			}

			lit, ok := call.Args[fmtIdx].(*ast.BasicLit)
			if !ok {
				return true
			}
			format, err := strconv.Unquote(lit.Value)
			if err != nil {
				return true
			}

			want := countOperands(format)
			got := len(call.Args) - fmtIdx - 1
			if want != got {
				pos := pkg.Fset.Position(call.Pos())
				findings = append(findings, check.Finding{
					Code: CodeFormat,
					Message: fmt.Sprintf("%s.%s format consumes %d operands but %d are supplied",
						qual.Name, sel.Sel.Name, want, got),
					Position: pos.String(),
					Severity: check.SeverityError,
				})
			}
			return true
		})
	}
	return findings
}

// countOperands counts how many operands a format string consumes.
// "%%" consumes none; "*" width/precision each consume one.
func countOperands(format string) int {
	count := 0
	i := 0
	for i < len(format) {
		if format[i] != '%' {
			i++
			continue
		}
		i++ // past '%'
		if i < len(format) && format[i] == '%' {
			i++
			continue
		}
		// flags
		for i < len(format) && isFlag(format[i]) {
			i++
		}
		// width
		if i < len(format) && format[i] == '*' {
			count++
			i++
		} else {
			for i < len(format) && isDigit(format[i]) {
				i++
			}
		}
		// precision
		if i < len(format) && format[i] == '.' {
			i++
			if i < len(format) && format[i] == '*' {
				count++
				i++
			} else {
				for i < len(format) && isDigit(format[i]) {
					i++
				}
			}
		}
		// verb
		if i < len(format) {
			count++
			i++
		}
	}
	return count
}

func isFlag(c byte) bool {
	return c == '#' || c == '0' || c == '-' || c == '+' || c == ' '
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
