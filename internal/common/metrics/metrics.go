// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"route", "method"},
	)

	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of eligibility predictions by category",
		},
		[]string{"category", "branch"},
	)

	PredictionResultRows = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prediction_result_rows",
			Help:    "Number of eligible rows returned per prediction",
			Buckets: []float64{0, 1, 5, 10, 25, 50},
		},
		[]string{"category"},
	)

	AdviceGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advice_generations_total",
			Help: "Total number of advice generations by provider outcome",
		},
		[]string{"provider"},
	)

	AdviceCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advice_cache_hits_total",
			Help: "Total number of advice cache lookups by result",
		},
		[]string{"result"},
	)

	LeadsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Total number of lead captures by outcome",
		},
		[]string{"outcome"},
	)
)
