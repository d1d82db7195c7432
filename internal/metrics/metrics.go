// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Authorization Pipeline Metrics
	PipelineDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_decisions_total",
			Help: "Total number of authorization pipeline decisions",
		},
		[]string{"pipeline", "outcome", "kind"}, // outcome: "admitted", "rejected"
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Duration of individual authorization pipeline stages",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"pipeline", "stage"},
	)

	CollectionRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "collection_rejections_total",
			Help: "Total number of requests rejected by the collection allow-list",
		},
	)

	// Tenant Cache Metrics
	TenantCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenant_cache_requests_total",
			Help: "Total number of tenant cache lookups",
		},
		[]string{"result"}, // "hit", "miss"
	)

	TenantCacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenant_cache_errors_total",
			Help: "Total number of tenant cache errors",
		},
		[]string{"operation"}, // "get", "set"
	)

	// Store Metrics
	StoreLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_lookups_total",
			Help: "Total number of system-of-record lookups",
		},
		[]string{"collection", "result"}, // result: "found", "not_found", "error"
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_connected",
			Help: "Whether the document store is connected (1) or not (0)",
		},
	)

	// Public Token Metrics
	PublicTokensIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "public_tokens_issued_total",
			Help: "Total number of public project tokens handed out",
		},
		[]string{"source"}, // "cache", "signed"
	)

	// Preview Proxy Metrics
	PreviewFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preview_fetches_total",
			Help: "Total number of upstream image fetches",
		},
		[]string{"variant", "result"},
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

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

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

// RecordPipelineStage records how long a single pipeline stage ran.
func RecordPipelineStage(pipeline, stage string, duration time.Duration) {
	PipelineStageDuration.WithLabelValues(pipeline, stage).Observe(duration.Seconds())
}

// RecordPipelineDecision records the terminal state of a pipeline run.
// kind is empty for admitted requests.
func RecordPipelineDecision(pipeline string, admitted bool, kind string) {
	if admitted {
		PipelineDecisions.WithLabelValues(pipeline, "admitted", "").Inc()
		return
	}
	PipelineDecisions.WithLabelValues(pipeline, "rejected", kind).Inc()
}

// RecordTenantCacheLookup records a tenant cache hit or miss.
func RecordTenantCacheLookup(hit bool) {
	if hit {
		TenantCacheRequests.WithLabelValues("hit").Inc()
	} else {
		TenantCacheRequests.WithLabelValues("miss").Inc()
	}
}

// RecordTenantCacheError records a failed cache operation ("get" or "set").
func RecordTenantCacheError(operation string) {
	TenantCacheErrors.WithLabelValues(operation).Inc()
}

// RecordStoreLookup records a system-of-record lookup outcome.
func RecordStoreLookup(collection, result string) {
	StoreLookups.WithLabelValues(collection, result).Inc()
}

// RecordStoreOperation records the duration of a document store operation.
func RecordStoreOperation(operation string, duration time.Duration) {
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetStoreConnected flips the store connectivity gauge.
func SetStoreConnected(connected bool) {
	if connected {
		StoreConnected.Set(1)
	} else {
		StoreConnected.Set(0)
	}
}

// RecordPublicTokenIssued records whether an issued token came from cache or was freshly signed.
func RecordPublicTokenIssued(fromCache bool) {
	if fromCache {
		PublicTokensIssued.WithLabelValues("cache").Inc()
	} else {
		PublicTokensIssued.WithLabelValues("signed").Inc()
	}
}

// RecordCollectionRejection counts a request blocked by the collection allow-list.
func RecordCollectionRejection() {
	CollectionRejections.Inc()
}

// RecordPreviewFetch records an upstream image fetch for the preview proxy.
func RecordPreviewFetch(variant string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	PreviewFetches.WithLabelValues(variant, result).Inc()
}
