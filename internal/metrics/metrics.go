package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SimulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irrigation_simulations_total",
			Help: "Total season simulations run",
		},
		[]string{"outcome"},
	)

	SimulationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "irrigation_simulation_duration_seconds",
			Help:    "Season simulation wall time in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	PowerAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irrigation_power_api_calls_total",
			Help: "Total NASA POWER API calls",
		},
		[]string{"status"},
	)

	PowerAPILatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "irrigation_power_api_latency_seconds",
			Help:    "NASA POWER API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RunsStoredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "irrigation_runs_stored_total",
			Help: "Total simulation runs archived to the database",
		},
	)
)
