package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	publishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolia",
			Subsystem: "portfolio",
			Name:      "publish_total",
			Help:      "Draft publications by outcome.",
		},
		[]string{"result"},
	)

	importedRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolia",
			Subsystem: "resume",
			Name:      "imported_rows_total",
			Help:      "Rows inserted by confirmed resume imports.",
		},
		[]string{"category"},
	)

	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolia",
			Subsystem: "ai",
			Name:      "requests_total",
			Help:      "LLM completions by provider and outcome.",
		},
		[]string{"provider", "result"},
	)

	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portfolia",
			Subsystem: "ai",
			Name:      "request_duration_seconds",
			Help:      "LLM completion latency in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider"},
	)
)

func ObservePublish(err error) {
	publishTotal.WithLabelValues(result(err)).Inc()
}

func AddImportedRows(category string, n int) {
	if n > 0 {
		importedRowsTotal.WithLabelValues(category).Add(float64(n))
	}
}

func ObserveAIRequest(provider string, started time.Time, err error) {
	aiRequestsTotal.WithLabelValues(provider, result(err)).Inc()
	aiRequestDuration.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
