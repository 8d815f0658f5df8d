// Package metrics provides a Prometheus-instrumented pipeline plugin:
// per-call counters by result, a duration histogram, and per-pass hook
// invocation counts.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jvillano/hookgate"
)

// Metrics holds the collectors one plugin instance reports into. Create one
// per registry; [Metrics.Plugin] instantiates the pipeline plugin for a
// parameter type.
type Metrics struct {
	// CallsTotal counts finished calls. Labels: call (the action name),
	// result (success, error).
	CallsTotal *prometheus.CounterVec

	// CallDuration tracks wall time per call in seconds. Labels: call.
	CallDuration *prometheus.HistogramVec

	// HookRuns counts plugins invoked per completed pass. Labels: hook.
	HookRuns *prometheus.CounterVec
}

// New registers the collectors with reg (use prometheus.DefaultRegisterer
// for the process-wide registry).
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hookgate",
				Subsystem: "pipeline",
				Name:      "calls_total",
				Help:      "Total number of finished pipeline calls",
			},
			[]string{"call", "result"},
		),
		CallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "hookgate",
				Subsystem: "pipeline",
				Name:      "call_duration_seconds",
				Help:      "Wall time of pipeline calls in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"call"},
		),
		HookRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hookgate",
				Subsystem: "pipeline",
				Name:      "hook_runs_total",
				Help:      "Total number of plugin hook invocations per pass",
			},
			[]string{"hook"},
		),
	}
}

// Plugin returns the pipeline plugin reporting into m. One Metrics may back
// plugins for several parameter types; they share collectors.
func Plugin[P any](m *Metrics) *hookgate.Plugin[P] {
	observe := func(ec *hookgate.ExecutionContext[P], result string) {
		m.CallsTotal.WithLabelValues(ec.Name(), result).Inc()
		m.CallDuration.WithLabelValues(ec.Name()).Observe(ec.Elapsed().Seconds())
	}
	return hookgate.NewPlugin[P]("metrics").
		On(hookgate.HookBefore, func(
			ctx context.Context, ec *hookgate.ExecutionContext[P], args ...any,
		) (hookgate.HookResult, error) {
			m.HookRuns.WithLabelValues(hookgate.HookBefore).Inc()
			return hookgate.Continue(), nil
		}).
		On(hookgate.HookSuccess, func(
			ctx context.Context, ec *hookgate.ExecutionContext[P], args ...any,
		) (hookgate.HookResult, error) {
			m.HookRuns.WithLabelValues(hookgate.HookSuccess).Inc()
			observe(ec, "success")
			return hookgate.Continue(), nil
		}).
		On(hookgate.HookError, func(
			ctx context.Context, ec *hookgate.ExecutionContext[P], args ...any,
		) (hookgate.HookResult, error) {
			m.HookRuns.WithLabelValues(hookgate.HookError).Inc()
			observe(ec, "error")
			return hookgate.Continue(), nil
		})
}
