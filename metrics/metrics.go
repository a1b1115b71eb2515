package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchAttempts tracks fetch attempts per source
	FetchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3u_fetch_attempts_total",
		Help: "Total number of playlist fetch attempts",
	}, []string{"source"})

	// FetchRetries tracks scheduled retries per source
	FetchRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3u_fetch_retries_total",
		Help: "Total number of playlist fetch retries",
	}, []string{"source"})

	// FetchFailures tracks exhausted fetch cycles by source and failure reason
	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3u_fetch_failures_total",
		Help: "Total number of playlist fetches that exhausted all attempts",
	}, []string{"source", "reason"})

	// ParseErrors tracks non-fatal per-line parse errors by kind
	ParseErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3u_parse_errors_total",
		Help: "Total number of non-fatal parse errors",
	}, []string{"kind"})

	// EntitiesBuilt tracks successfully built entities by kind
	EntitiesBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3u_entities_built_total",
		Help: "Total number of entities built from playlist units",
	}, []string{"kind"})

	// EntitiesDropped tracks entities dropped by the validation gate
	EntitiesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3u_entities_dropped_total",
		Help: "Total number of entities dropped during validation",
	}, []string{"reason"})

	// LastIngestItems tracks the item count of the most recent successful ingest
	LastIngestItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "m3u_last_ingest_items",
		Help: "Number of items produced by the most recent successful ingest",
	})

	// CircuitBreakerState tracks the current state of circuit breakers
	// 0=closed, 1=open, 2=half-open
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "m3u_circuit_breaker_state",
		Help: "Current state of circuit breaker (0=closed, 1=open, 2=half-open)",
	}, []string{"source"})

	// CircuitBreakerTrips tracks how many times a circuit breaker transitioned to OPEN
	CircuitBreakerTrips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3u_circuit_breaker_trips_total",
		Help: "Total number of times circuit breaker transitioned to OPEN state",
	}, []string{"source"})
)

// RecordFetchAttempt increments the attempt counter for a source
func RecordFetchAttempt(source string) {
	FetchAttempts.WithLabelValues(source).Inc()
}

// RecordFetchRetry increments the retry counter for a source
func RecordFetchRetry(source string) {
	FetchRetries.WithLabelValues(source).Inc()
}

// RecordFetchFailure increments the failure counter for a source and reason
func RecordFetchFailure(source, reason string) {
	FetchFailures.WithLabelValues(source, reason).Inc()
}

// RecordParseError increments the parse error counter for an error kind
func RecordParseError(kind string) {
	ParseErrors.WithLabelValues(kind).Inc()
}

// RecordEntityBuilt increments the built counter for an entity kind
func RecordEntityBuilt(kind string) {
	EntitiesBuilt.WithLabelValues(kind).Inc()
}

// RecordEntityDropped increments the dropped counter for a validation reason
func RecordEntityDropped(reason string) {
	EntitiesDropped.WithLabelValues(reason).Inc()
}

// SetLastIngestItems sets the item count of the most recent successful ingest
func SetLastIngestItems(count int) {
	LastIngestItems.Set(float64(count))
}

// SetCircuitBreakerState updates the circuit breaker state metric
// state should be one of: "CLOSED" (0), "OPEN" (1), "HALF-OPEN" (2)
func SetCircuitBreakerState(source, state string) {
	var value float64
	switch state {
	case "CLOSED":
		value = 0
	case "OPEN":
		value = 1
	case "HALF-OPEN":
		value = 2
	}
	CircuitBreakerState.WithLabelValues(source).Set(value)
}

// RecordCircuitBreakerTrip increments the circuit breaker trip counter
func RecordCircuitBreakerTrip(source string) {
	CircuitBreakerTrips.WithLabelValues(source).Inc()
}
