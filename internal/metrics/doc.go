// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and are
exposed at /metrics by the API router:

	curl http://localhost:3001/metrics

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Authorization Metrics:
  - pipeline_decisions_total: Admitted/rejected requests (counter)
    Labels: pipeline (private, public), outcome, kind
  - pipeline_stage_duration_seconds: Per-stage latency (histogram)
    Labels: pipeline, stage
  - collection_rejections_total: Collection allow-list rejections (counter)
  - public_tokens_issued_total: Issued public tokens (counter)
    Labels: source (cache, signed)

Tenant Cache Metrics:
  - tenant_cache_requests_total: Lookups by result (counter)
    Labels: result (hit, miss)
  - tenant_cache_errors_total: Failed cache calls (counter)
    Labels: operation (get, set)

Store Metrics:
  - store_lookups_total: Merchant and user lookups (counter)
    Labels: collection, result (found, not_found, error)
  - store_operation_duration_seconds: CRUD and aggregate latency (histogram)
  - store_connected: Connection state (gauge)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Requests by result (counter)
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total (counter)

# Usage

Record helpers keep label values consistent across call sites:

	start := time.Now()
	...
	metrics.RecordAPIRequest(r.Method, route, strconv.Itoa(status), time.Since(start))

# Thread Safety

All collectors are safe for concurrent use.
*/
package metrics
