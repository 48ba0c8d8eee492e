package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OpenMeteoAPICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agroseason_openmeteo_api_calls_total",
			Help: "Total Open-Meteo API calls",
		},
		[]string{"endpoint", "status"},
	)

	OpenMeteoAPILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agroseason_openmeteo_api_latency_seconds",
			Help:    "Open-Meteo API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	ObservationsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agroseason_observations_ingested_total",
			Help: "Total daily observations successfully ingested",
		},
		[]string{"location"},
	)

	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agroseason_queries_total",
			Help: "Total engine queries served",
		},
		[]string{"type", "status"},
	)
)
