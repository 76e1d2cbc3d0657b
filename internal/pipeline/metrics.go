package pipeline

import "github.com/prometheus/client_golang/prometheus"

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "convertd",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Pipeline runs by terminal state",
		},
		[]string{"state"},
	)

	stepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "convertd",
			Subsystem: "pipeline",
			Name:      "step_duration_seconds",
			Help:      "Duration of pipeline steps in seconds",
			// merges and conversions run for minutes
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1200, 2400},
		},
		[]string{"step", "result"},
	)
)

func init() {
	prometheus.MustRegister(runsTotal, stepDuration)
}
