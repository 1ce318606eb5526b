// Package metrics holds the Prometheus instruments shared by the CDS
// services, registered on the default registry and exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts requests by route pattern, method and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cds_http_requests_total",
			Help: "Total number of HTTP requests by path, method and status",
		},
		[]string{"path", "method", "status"},
	)

	// HTTPRequestDuration tracks per-route latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cds_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	// BatchesPublished counts successfully published scorecard batches.
	BatchesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cds_batches_published_total",
		Help: "Total number of scorecard batches published",
	})

	// ScorecardsBuilt counts scorecards that passed validation.
	ScorecardsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cds_scorecards_built_total",
		Help: "Total number of scorecards built",
	})

	// RecordsRejected counts readings dropped by input validation.
	RecordsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cds_records_rejected_total",
		Help: "Total number of patient readings rejected by validation",
	})

	// PollFailures counts failed fetches by the bedside polling client.
	PollFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cds_poll_failures_total",
		Help: "Total number of failed polls against the scorecard API",
	})
)
