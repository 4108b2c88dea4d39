package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess   = "success"
	ResultForbidden = "forbidden"
	ResultConflict  = "conflict"
	ResultNotFound  = "not_found"
	ResultError     = "error"
)

var (
	ExpenseTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expense_transitions_total",
			Help: "Total number of expense status transition attempts",
		},
		[]string{"to", "result"},
	)

	SignFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attachment_sign_failures_total",
			Help: "Total number of signed URL requests that degraded to a null URL",
		},
		[]string{"namespace"},
	)

	UploadedFiles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attachment_uploads_total",
			Help: "Total number of uploaded files",
		},
		[]string{"namespace", "result"},
	)

	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HttpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)
