// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "library_store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_store_operation_errors_total",
			Help: "Total number of failed document store operations",
		},
		[]string{"backend", "operation"},
	)

	StoreUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "library_store_up",
			Help: "Whether the last store probe succeeded (1) or failed (0)",
		},
		[]string{"backend"},
	)

	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_store_gc_runs_total",
			Help: "Total number of store garbage collection cycles",
		},
		[]string{"backend", "result"}, // result: "success", "error"
	)

	StoreGCDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "library_store_gc_duration_seconds",
			Help:    "Duration of store garbage collection cycles in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Library Metrics
	LibraryOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_operations_total",
			Help: "Total number of library operations by outcome",
		},
		[]string{"operation", "result"}, // result: "ok", "not_found", "duplicate", "invalid", "error"
	)

	HistoryConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "library_history_version_conflicts_total",
			Help: "Total number of optimistic concurrency conflicts while recording history",
		},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_recommendations_total",
			Help: "Total number of recommendation responses by reason",
		},
		[]string{"reason"},
	)

	RecommendationResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "library_recommendation_result_size",
			Help:    "Number of playlists returned per recommendation request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordStoreOperation records the latency and outcome of one store call.
func RecordStoreOperation(backend, operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(backend, operation).Inc()
	}
}

// RecordStoreProbe records the outcome of a periodic store ping.
func RecordStoreProbe(backend string, healthy bool) {
	if healthy {
		StoreUp.WithLabelValues(backend).Set(1)
		return
	}
	StoreUp.WithLabelValues(backend).Set(0)
}

// RecordStoreGC records one garbage collection cycle.
func RecordStoreGC(backend string, duration time.Duration, err error) {
	StoreGCDuration.Observe(duration.Seconds())
	if err != nil {
		StoreGCRuns.WithLabelValues(backend, "error").Inc()
		return
	}
	StoreGCRuns.WithLabelValues(backend, "success").Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordLibraryOperation counts one library operation outcome.
func RecordLibraryOperation(operation, result string) {
	LibraryOperations.WithLabelValues(operation, result).Inc()
}

// RecordHistoryConflict counts a lost compare-and-swap on a history ledger.
func RecordHistoryConflict() {
	HistoryConflicts.Inc()
}

// RecordRecommendation records the reason and size of a recommendation response.
func RecordRecommendation(reason string, size int) {
	RecommendationsServed.WithLabelValues(reason).Inc()
	RecommendationResultSize.Observe(float64(size))
}
