package lint_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/preflightci/preflight/internal/checks/lint"
	"github.com/preflightci/preflight/pkg/check"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree materializes a small Go module to lint.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	files["go.mod"] = "module fixture.example/app\n\ngo 1.25\n"
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func findCodes(findings []check.Finding) []string {
	var codes []string
	for _, f := range findings {
		codes = append(codes, f.Code)
	}
	return codes
}

func TestStrict_CleanTree(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.go": `package main

import "fmt"

func main() {
	fmt.Printf("hello %s\n", "world")
}
`,
	})

	out := &bytes.Buffer{}
	c := lint.NewStrict(dir)
	c.Output = out

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, check.StatusPassed, res.Status)
	assert.Empty(t, res.Findings)
	assert.Contains(t, out.String(), "no fatal problems found")
}

func TestStrict_UndefinedName(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.go": `package main

func main() {
	println(missingThing)
}
`,
	})

	c := lint.NewStrict(dir)
	c.Output = &bytes.Buffer{}

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, check.StatusFailed, res.Status)
	assert.Contains(t, findCodes(res.Findings), lint.CodeUndefined)
	assert.Contains(t, res.Output, "fatal problems found")
}

func TestStrict_SyntaxError(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"broken.go": "package main\n\nfunc main() {\n",
	})

	c := lint.NewStrict(dir)
	c.Output = &bytes.Buffer{}

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, check.StatusFailed, res.Status)
	assert.Contains(t, findCodes(res.Findings), lint.CodeSyntax)
}

func TestStrict_FormatStringMismatch(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.go": `package main

import "fmt"

func main() {
	name := "bot"
	fmt.Printf("%s started on port %d\n", name)
}
`,
	})

	c := lint.NewStrict(dir)
	c.Output = &bytes.Buffer{}

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, check.StatusFailed, res.Status)

	codes := findCodes(res.Findings)
	assert.Contains(t, codes, lint.CodeFormat)

	var f check.Finding
	for _, cand := range res.Findings {
		if cand.Code == lint.CodeFormat {
			f = cand
		}
	}
	assert.Contains(t, f.Message, "consumes 2 operands but 1")
	assert.Contains(t, f.Position, "main.go")
}

func TestAdvisory_NeverFails(t *testing.T) {
	longLine := "// this comment keeps going and going " + string(bytes.Repeat([]byte("x"), 120))
	dir := writeTree(t, map[string]string{
		"main.go": `package main

` + longLine + `

func classify(n int) string {
	if n > 100 && n < 1000 {
		return "mid"
	}
	if n > 10 {
		return "low-mid"
	}
	if n > 5 {
		return "low"
	}
	if n > 3 {
		return "lower"
	}
	if n > 2 {
		return "tiny"
	}
	if n > 1 {
		return "unit"
	}
	for i := 0; i < n; i++ {
		switch i {
		case 1:
			return "one"
		case 2:
			return "two"
		case 3:
			return "three"
		}
	}
	return "zero"
}

func main() {
	println(classify(7))
}
`,
	})

	out := &bytes.Buffer{}
	c := lint.NewAdvisory(dir, 10, 127)
	c.Output = out

	res, err := c.Run(context.Background())
	require.NoError(t, err)

	// Findings are surfaced as statistics but the pass still succeeds.
	assert.Equal(t, check.StatusPassed, res.Status)
	codes := findCodes(res.Findings)
	assert.Contains(t, codes, lint.CodeComplexity)
	assert.Contains(t, codes, lint.CodeLineLength)
	assert.Contains(t, out.String(), "not blocking")
}

func TestAdvisory_CleanTreeReportsZero(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.go": "package main\n\nfunc main() {}\n",
	})

	out := &bytes.Buffer{}
	c := lint.NewAdvisory(dir, 10, 127)
	c.Output = out

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, check.StatusPassed, res.Status)
	assert.Empty(t, res.Findings)
	assert.Contains(t, out.String(), "advisory: 0 findings")
}

func TestAdvisory_ThresholdsAreConfigurable(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.go": `package main

func pick(n int) int {
	if n > 1 {
		return 1
	}
	if n > 2 {
		return 2
	}
	return 0
}

func main() { println(pick(1)) }
`,
	})

	strictish := lint.NewAdvisory(dir, 1, 127)
	strictish.Output = &bytes.Buffer{}
	res, err := strictish.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, findCodes(res.Findings), lint.CodeComplexity)

	relaxed := lint.NewAdvisory(dir, 10, 127)
	relaxed.Output = &bytes.Buffer{}
	res, err = relaxed.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Findings)
}
