package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	stageLatency    *prometheus.HistogramVec
	strategyLatency *prometheus.HistogramVec
	strategyTotal   *prometheus.CounterVec
	runsTotal       *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		stageLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stockforecast",
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		strategyLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stockforecast",
				Name:      "strategy_duration_seconds",
				Help:      "Duration of a single forecasting strategy in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"strategy"},
		),
		strategyTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockforecast",
				Name:      "strategy_runs_total",
				Help:      "Strategy executions by outcome",
			},
			[]string{"strategy", "outcome"},
		),
		runsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockforecast",
				Name:      "runs_total",
				Help:      "Pipeline runs by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockforecast",
				Name:      "errors_total",
				Help:      "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordStage records how long a pipeline stage took.
func (r *Recorder) RecordStage(stage string, seconds float64) {
	r.stageLatency.WithLabelValues(stage).Observe(seconds)
}

// RecordStrategy records a strategy execution.
func (r *Recorder) RecordStrategy(strategy, outcome string, seconds float64) {
	r.strategyTotal.WithLabelValues(strategy, outcome).Inc()
	r.strategyLatency.WithLabelValues(strategy).Observe(seconds)
}

// RecordRun records a finished pipeline run.
func (r *Recorder) RecordRun(outcome string) {
	r.runsTotal.WithLabelValues(outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// Nop discards all observations.
type Nop struct{}

func (Nop) RecordStage(string, float64)            {}
func (Nop) RecordStrategy(string, string, float64) {}
func (Nop) RecordRun(string)                       {}
func (Nop) RecordError(string)                     {}
