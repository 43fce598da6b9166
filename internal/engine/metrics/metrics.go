package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ErrorsTotal counts recorded playback failures per error kind
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_errors_total",
			Help: "Total number of recorded playback failures",
		},
		[]string{"kind"},
	)

	// DecisionsTotal counts decisions handed back to the playback controller
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_decisions_total",
			Help: "Total number of decisions by action",
		},
		[]string{"action"},
	)

	// BreakerTrips counts circuit breaker open transitions
	BreakerTrips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resilience_breaker_trips_total",
			Help: "Total number of times the circuit breaker opened",
		},
	)

	// BreakerOpen is 1 while the circuit breaker is open
	BreakerOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resilience_breaker_open",
			Help: "Whether the circuit breaker is currently open",
		},
	)

	// EventLogSize tracks the number of retained error events
	EventLogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resilience_event_log_size",
			Help: "Number of error events currently retained",
		},
	)

	// ProbeChecks counts connectivity probe results
	ProbeChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_probe_checks_total",
			Help: "Total number of connectivity checks by result",
		},
		[]string{"result"},
	)
)
