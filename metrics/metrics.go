// metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	submissionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dex_sdk_submissions_total",
			Help: "Total number of swap submissions by terminal status",
		},
		[]string{"status"},
	)
	quoteDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dex_sdk_quote_duration_seconds",
			Help:    "Duration of quote computation including oracle reads",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)
	pollAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dex_sdk_poll_attempts",
			Help:    "Status probes spent per confirmation wait",
			Buckets: prometheus.LinearBuckets(1, 2, 15),
		},
	)
)

func init() {
	prometheus.MustRegister(submissionCounter)
	prometheus.MustRegister(quoteDuration)
	prometheus.MustRegister(pollAttempts)
}

// ObserveSubmission records one terminal submission outcome.
func ObserveSubmission(status string) {
	submissionCounter.WithLabelValues(status).Inc()
}

// ObservePollAttempts records the probes a confirmation wait consumed.
func ObservePollAttempts(attempts int) {
	pollAttempts.Observe(float64(attempts))
}

// MeasureQuote times a quote computation.
func MeasureQuote(f func() error) error {
	start := time.Now()
	err := f()
	quoteDuration.Observe(time.Since(start).Seconds())
	return err
}
