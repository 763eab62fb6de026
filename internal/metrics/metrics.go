// Package metrics exposes Prometheus collectors for check outcomes.
// The collectors are fed through check.LifecycleHooks so the runner stays
// decoupled from the metrics backend.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/preflightci/preflight/pkg/check"
)

// Collectors bundles the harness metrics.
type Collectors struct {
	ChecksTotal   *prometheus.CounterVec
	CheckDuration *prometheus.HistogramVec
	FindingsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them on the given registerer.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		ChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preflight_checks_total",
				Help: "Total number of completed checks by status",
			},
			[]string{"check", "status"},
		),
		CheckDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "preflight_check_duration_seconds",
				Help: "Duration of check executions",
			},
			[]string{"check"},
		),
		FindingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preflight_findings_total",
				Help: "Total number of findings by check and severity",
			},
			[]string{"check", "severity"},
		),
	}
	reg.MustRegister(c.ChecksTotal, c.CheckDuration, c.FindingsTotal)
	return c
}

// Hooks returns lifecycle hooks that record the run into the collectors.
func (c *Collectors) Hooks() check.LifecycleHooks {
	return check.LifecycleHooks{
		OnCheckEnd: func(_ context.Context, e *check.CheckEvent) {
			c.ChecksTotal.WithLabelValues(e.Check, string(e.Status)).Inc()
			c.CheckDuration.WithLabelValues(e.Check).Observe(e.Duration.Seconds())
		},
		OnFinding: func(_ context.Context, e *check.FindingEvent) {
			c.FindingsTotal.WithLabelValues(e.Check, string(e.Finding.Severity)).Inc()
		},
	}
}
