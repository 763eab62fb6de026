package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	adapter "github.com/preflightci/preflight/internal/adapters/http"
	"github.com/preflightci/preflight/pkg/check"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passingReport() *check.Report {
	return &check.Report{
		State: check.StateDone,
		Results: []*check.Result{
			{Check: "environment", Status: check.StatusPassed},
		},
	}
}

func failingReport() *check.Report {
	return &check.Report{
		State: check.StateFailed,
		Results: []*check.Result{
			{Check: "lint-strict", Status: check.StatusFailed, ExitCode: 1},
		},
	}
}

func TestServer_HealthReflectsLastReport(t *testing.T) {
	s := adapter.NewServer(nil, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])

	s.SetReport(failingReport())
	resp2, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&body))
	assert.Equal(t, "failing", body["status"])
}

func TestServer_ReportBeforeAnyRun(t *testing.T) {
	s := adapter.NewServer(nil, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/report")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_RunUpdatesReport(t *testing.T) {
	runs := 0
	s := adapter.NewServer(func(ctx context.Context) (*check.Report, error) {
		runs++
		return passingReport(), nil
	}, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/run", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, runs)

	var report check.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, check.StateDone, report.State)

	// The report endpoint now serves the same run.
	resp2, err := http.Get(ts.URL + "/report")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestServer_RunErrorIs500(t *testing.T) {
	s := adapter.NewServer(func(ctx context.Context) (*check.Report, error) {
		return nil, errors.New("loader exploded")
	}, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/run", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	s := adapter.NewServer(nil, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
