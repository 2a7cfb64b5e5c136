// Package metrics exposes Prometheus instrumentation for backtest,
// optimize, and walk-forward runs via prometheus/client_golang.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors this module registers. Registered
// lazily via Register so unit tests can construct a Metrics value
// without touching the default registry, and so cmd/backtestlab can
// register once at startup.
type Metrics struct {
	BacktestDuration   prometheus.Histogram
	OptimizeEvaluations prometheus.Counter
	OptimizeBestMetric prometheus.Gauge
	WalkForwardWindows prometheus.Counter
}

var (
	once     sync.Once
	instance *Metrics
)

// New constructs an unregistered Metrics bundle.
func New() *Metrics {
	return &Metrics{
		BacktestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "backtest_duration_seconds",
			Help:    "Duration of a single backtest run.",
			Buckets: prometheus.DefBuckets,
		}),
		OptimizeEvaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "optimize_evaluations_total",
			Help: "Number of candidate parameter coordinates evaluated by the optimizer.",
		}),
		OptimizeBestMetric: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "optimize_best_metric",
			Help: "Objective value of the best candidate found by the most recent optimizer run.",
		}),
		WalkForwardWindows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walkforward_windows_total",
			Help: "Number of in-sample/out-of-sample windows completed by the walk-forward harness.",
		}),
	}
}

// Register registers m's collectors with reg exactly once per process;
// subsequent calls are no-ops so repeated CLI invocations (or tests)
// never panic on a duplicate registration.
func Register(reg prometheus.Registerer) *Metrics {
	once.Do(func() {
		instance = New()
		reg.MustRegister(
			instance.BacktestDuration,
			instance.OptimizeEvaluations,
			instance.OptimizeBestMetric,
			instance.WalkForwardWindows,
		)
	})
	return instance
}
