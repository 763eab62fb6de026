package env_test

import (
	"bytes"
	"context"
	"runtime"
	"testing"

	"github.com/preflightci/preflight/internal/checks/env"
	"github.com/preflightci/preflight/internal/config"
	"github.com/preflightci/preflight/pkg/check"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shellStep(desc, script string) config.Step {
	return config.Step{
		Description: desc,
		Command:     "/bin/sh",
		Args:        []string{"-c", script},
	}
}

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell fixtures are unix-only")
	}
}

func TestEnv_AllStepsPass(t *testing.T) {
	requireUnix(t)

	out := &bytes.Buffer{}
	c := env.New(t.TempDir(), []config.Step{
		shellStep("first", "echo one"),
		shellStep("second", "echo two"),
	})
	c.Output = out

	res, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, check.StatusPassed, res.Status)
	assert.Contains(t, out.String(), "→ first")
	assert.Contains(t, out.String(), "one")
	assert.Contains(t, out.String(), "→ second")
	assert.Contains(t, res.Output, "two")
}

func TestEnv_FailFastOnNonZeroExit(t *testing.T) {
	requireUnix(t)

	out := &bytes.Buffer{}
	c := env.New(t.TempDir(), []config.Step{
		shellStep("install missing dependency", "echo resolving nonexistent-package; exit 3"),
		shellStep("never runs", "echo later"),
	})
	c.Output = out

	res, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, check.StatusFailed, res.Status)
	assert.Equal(t, 3, res.ExitCode, "underlying exit status must propagate")
	assert.Contains(t, res.Err, "install missing dependency")
	assert.NotContains(t, out.String(), "later", "subsequent steps must not start")
	// The child's own diagnostics are surfaced verbatim.
	assert.Contains(t, res.Output, "resolving nonexistent-package")
}

func TestEnv_MissingCommand(t *testing.T) {
	c := env.New(t.TempDir(), []config.Step{
		{Description: "bogus tool", Command: "definitely-not-a-real-binary-48151623"},
	})
	c.Output = &bytes.Buffer{}

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, check.StatusFailed, res.Status)
	assert.Equal(t, 1, res.ExitCode)
}

func TestEnv_StepEnvIsApplied(t *testing.T) {
	requireUnix(t)

	out := &bytes.Buffer{}
	step := shellStep("print env", "echo marker=$PREFLIGHT_MARKER")
	step.Env = map[string]string{"PREFLIGHT_MARKER": "xyzzy"}

	c := env.New(t.TempDir(), []config.Step{step})
	c.Output = out

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, check.StatusPassed, res.Status)
	assert.Contains(t, out.String(), "marker=xyzzy")
}

func TestEnv_Idempotent(t *testing.T) {
	requireUnix(t)

	c := env.New(t.TempDir(), []config.Step{shellStep("stable", "echo stable-output")})

	first := &bytes.Buffer{}
	c.Output = first
	res1, err := c.Run(context.Background())
	require.NoError(t, err)

	second := &bytes.Buffer{}
	c.Output = second
	res2, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, res1.Status, res2.Status)
	assert.Equal(t, first.String(), second.String())
}
