package check_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/preflightci/preflight/pkg/check"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCheck struct {
	name   string
	result *check.Result
	err    error
	ran    *[]string
}

func (f *fakeCheck) Name() string  { return f.name }
func (f *fakeCheck) Title() string { return "Fake " + f.name }

func (f *fakeCheck) Run(ctx context.Context) (*check.Result, error) {
	if f.ran != nil {
		*f.ran = append(*f.ran, f.name)
	}
	return f.result, f.err
}

func passing(name string, ran *[]string) *fakeCheck {
	return &fakeCheck{name: name, ran: ran, result: &check.Result{Status: check.StatusPassed}}
}

func failing(name string, code int, ran *[]string) *fakeCheck {
	return &fakeCheck{name: name, ran: ran, result: &check.Result{
		Status:   check.StatusFailed,
		ExitCode: code,
		Findings: []check.Finding{{Code: "X1", Message: "boom", Severity: check.SeverityError}},
	}}
}

func TestRunner_AllPass(t *testing.T) {
	var ran []string
	out := &bytes.Buffer{}
	r := check.NewRunner()
	r.Output = out

	report, err := r.Run(context.Background(), passing("a", &ran), passing("b", &ran))
	require.NoError(t, err)

	assert.Equal(t, check.StateDone, report.State)
	assert.Equal(t, 0, report.ExitCode())
	assert.Equal(t, []string{"a", "b"}, ran)
	assert.Contains(t, out.String(), "=== Fake a ===")
	assert.Contains(t, out.String(), "=== Fake b ===")
}

func TestRunner_FailFast(t *testing.T) {
	var ran []string
	out := &bytes.Buffer{}
	r := check.NewRunner()
	r.Output = out

	report, err := r.Run(context.Background(),
		passing("a", &ran),
		failing("b", 2, &ran),
		passing("c", &ran),
	)
	require.NoError(t, err)

	assert.Equal(t, check.StateFailed, report.State)
	assert.Equal(t, 2, report.ExitCode())
	assert.Equal(t, []string{"a", "b"}, ran, "check after the failure must not run")
	assert.Nil(t, report.Result("c"))
	assert.NotContains(t, out.String(), "Fake c", "no banner for unattempted checks")
}

func TestRunner_InfrastructureError(t *testing.T) {
	var ran []string
	boom := errors.New("loader exploded")
	r := check.NewRunner()
	r.Output = &bytes.Buffer{}

	report, err := r.Run(context.Background(),
		&fakeCheck{name: "a", ran: &ran, err: boom},
		passing("b", &ran),
	)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, check.StateFailed, report.State)
	assert.Equal(t, 1, report.ExitCode())
	assert.Equal(t, []string{"a"}, ran)
}

func TestRunner_AdvisoryFindingsDoNotFail(t *testing.T) {
	advisory := &fakeCheck{name: "style", result: &check.Result{
		Status: check.StatusPassed,
		Findings: []check.Finding{
			{Code: "C901", Message: "too complex", Severity: check.SeverityWarning},
			{Code: "E501", Message: "line too long", Severity: check.SeverityWarning},
		},
	}}

	r := check.NewRunner()
	r.Output = &bytes.Buffer{}
	report, err := r.Run(context.Background(), advisory)
	require.NoError(t, err)

	assert.Equal(t, check.StateDone, report.State)
	assert.Equal(t, 0, report.ExitCode())
	assert.Equal(t, 2, report.Warnings())
}

func TestRunner_Hooks(t *testing.T) {
	var started, ended, findings []string
	r := check.NewRunner()
	r.Output = &bytes.Buffer{}
	r.Hooks = check.LifecycleHooks{
		OnCheckStart: func(_ context.Context, e *check.CheckEvent) { started = append(started, e.Check) },
		OnCheckEnd:   func(_ context.Context, e *check.CheckEvent) { ended = append(ended, e.Check+":"+string(e.Status)) },
		OnFinding:    func(_ context.Context, e *check.FindingEvent) { findings = append(findings, e.Finding.Code) },
	}

	var ran []string
	_, err := r.Run(context.Background(), passing("a", &ran), failing("b", 0, &ran))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, started)
	assert.Equal(t, []string{"a:passed", "b:failed"}, ended)
	assert.Equal(t, []string{"X1"}, findings)
}

func TestRunner_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran []string
	r := check.NewRunner()
	r.Output = &bytes.Buffer{}
	report, err := r.Run(ctx, passing("a", &ran))

	require.Error(t, err)
	assert.Empty(t, ran)
	assert.Equal(t, check.StateFailed, report.State)
}
