// Package metrics exports orchestrator operation metrics to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Recorder struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewRecorder registers the collectors on reg. Pass prometheus.DefaultRegisterer
// to expose them through promhttp.Handler.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		operationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orchestrator",
			Name:      "operations_total",
			Help:      "Payment operations by family and outcome",
		}, []string{"operation", "family", "outcome"}),
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "orchestrator",
			Name:      "operation_duration_seconds",
			Help:      "Duration of payment operations including gateway round trips",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "family"}),
	}
}

func (r *Recorder) ObserveOperation(operation, family, outcome string, duration time.Duration) {
	r.operationsTotal.WithLabelValues(operation, family, outcome).Inc()
	r.operationDuration.WithLabelValues(operation, family).Observe(duration.Seconds())
}
