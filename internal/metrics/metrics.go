// Package metrics holds the Prometheus instruments shared by the
// pipeline and the HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EmailsProcessed counts completed pipeline runs by verdict.
	EmailsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phishscope_emails_processed_total",
		Help: "Total emails processed by final verdict.",
	}, []string{"verdict"})

	// EmailsFailed counts messages that could not be parsed.
	EmailsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phishscope_emails_failed_total",
		Help: "Total emails aborted at the parsing boundary.",
	})

	// IntelFailures counts degraded reputation lookups by provider.
	IntelFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phishscope_intel_failures_total",
		Help: "Total reputation lookups that degraded to a neutral signal.",
	}, []string{"provider"})

	// PipelineDuration tracks end-to-end triage latency per message.
	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "phishscope_pipeline_duration_seconds",
		Help:    "End-to-end pipeline duration per message.",
		Buckets: prometheus.DefBuckets,
	})

	// HTTPRequests counts dashboard API requests by method, path, status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phishscope_http_requests_total",
		Help: "Total HTTP requests by method, path, and response status.",
	}, []string{"method", "path", "status"})

	// HTTPDuration tracks dashboard API request latency.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "phishscope_http_request_duration_seconds",
		Help:    "Request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)
