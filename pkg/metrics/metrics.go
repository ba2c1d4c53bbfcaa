package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "qscreen"

// Metrics holds all Prometheus metrics for the service
// ⭐ SSOT: 메트릭 정의는 여기서만
//
// Every Record/Set method is safe on a nil *Metrics, so components can run unmetered.
type Metrics struct {
	// Screening
	ScreenRequestsTotal *prometheus.CounterVec
	ScreenDuration      *prometheus.HistogramVec
	ScreenResults       *prometheus.HistogramVec
	FinalScores         prometheus.Histogram
	FilterRejections    *prometheus.CounterVec

	// Snapshot
	SnapshotGeneration prometheus.Gauge
	SnapshotRecords    prometheus.Gauge
	RefreshTotal       *prometheus.CounterVec
	RefreshDuration    *prometheus.HistogramVec

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Circuit breaker
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// defaultBuckets are the default histogram buckets for duration metrics (in seconds)
var defaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// scoreBuckets cover the 0..100 final score range
var scoreBuckets = []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// New creates and registers all metrics on reg (default registerer when nil)
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ScreenRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "screen",
				Name:      "requests_total",
				Help:      "Total number of screening runs",
			},
			[]string{"origin", "cache"},
		),
		ScreenDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "screen",
				Name:      "duration_seconds",
				Help:      "Duration of screening runs in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"origin", "status"},
		),
		ScreenResults: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "screen",
				Name:      "results",
				Help:      "Number of records per screening stage",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"stage"},
		),
		FinalScores: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "screen",
				Name:      "final_score",
				Help:      "Distribution of final scores of returned records",
				Buckets:   scoreBuckets,
			},
		),
		FilterRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "screen",
				Name:      "filter_rejections_total",
				Help:      "Records rejected per hard filter",
			},
			[]string{"filter"},
		),

		SnapshotGeneration: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "snapshot",
				Name:      "generation",
				Help:      "Generation of the current snapshot",
			},
		),
		SnapshotRecords: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "snapshot",
				Name:      "records",
				Help:      "Number of records in the current snapshot",
			},
		),
		RefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "snapshot",
				Name:      "refresh_total",
				Help:      "Total number of snapshot refresh attempts",
			},
			[]string{"source", "status"},
		),
		RefreshDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "snapshot",
				Name:      "refresh_duration_seconds",
				Help:      "Duration of snapshot refreshes in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"source"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "route"},
		),

		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "circuit_breaker",
				Name:      "state",
				Help:      "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
			},
			[]string{"service"},
		),
		CircuitBreakerTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "circuit_breaker",
				Name:      "trips_total",
				Help:      "Total number of circuit breaker trips",
			},
			[]string{"service"},
		),
	}
}

// RecordScreen records one screening run
func (m *Metrics) RecordScreen(origin string, cacheHit bool, status string, duration time.Duration) {
	if m == nil {
		return
	}
	cache := "miss"
	if cacheHit {
		cache = "hit"
	}
	m.ScreenRequestsTotal.WithLabelValues(origin, cache).Inc()
	m.ScreenDuration.WithLabelValues(origin, status).Observe(duration.Seconds())
}

// RecordStageSize records how many records left a pipeline stage
func (m *Metrics) RecordStageSize(stage string, n int) {
	if m == nil {
		return
	}
	m.ScreenResults.WithLabelValues(stage).Observe(float64(n))
}

// RecordFinalScore records the final score of one returned record
func (m *Metrics) RecordFinalScore(score float64) {
	if m == nil {
		return
	}
	m.FinalScores.Observe(score)
}

// RecordFilterRejections adds per-filter rejection counts
func (m *Metrics) RecordFilterRejections(filtered map[string]int) {
	if m == nil {
		return
	}
	for name, n := range filtered {
		m.FilterRejections.WithLabelValues(name).Add(float64(n))
	}
}

// SetSnapshot publishes the current snapshot's generation and size
func (m *Metrics) SetSnapshot(generation uint64, records int) {
	if m == nil {
		return
	}
	m.SnapshotGeneration.Set(float64(generation))
	m.SnapshotRecords.Set(float64(records))
}

// RecordRefresh records one snapshot refresh attempt
func (m *Metrics) RecordRefresh(source, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RefreshTotal.WithLabelValues(source, status).Inc()
	m.RefreshDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, route, statusCode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// SetCircuitBreakerState sets the current state of a circuit breaker
func (m *Metrics) SetCircuitBreakerState(service string, state int) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(service string) {
	if m == nil {
		return
	}
	m.CircuitBreakerTrips.WithLabelValues(service).Inc()
}
