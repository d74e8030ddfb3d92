package news

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	fetchCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newspulse_news_fetch_requests_total",
			Help: "Total number of news fetch requests per source",
		},
		[]string{"source"},
	)
	fetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newspulse_news_fetch_errors_total",
			Help: "Total number of failed news fetch requests per source",
		},
		[]string{"source"},
	)
	fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newspulse_news_fetch_duration_seconds",
			Help:    "Duration of news fetch requests per source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8), // 0.1s to ~12.8s
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(fetchCount, fetchErrors, fetchDuration)
}

// observe records one request; call deferred with a pointer to the named error result
func observe(source string, start time.Time, err *error) {
	fetchCount.WithLabelValues(source).Inc()
	fetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil && *err != nil {
		fetchErrors.WithLabelValues(source).Inc()
	}
}
