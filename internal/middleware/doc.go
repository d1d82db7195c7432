// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

/*
Package middleware provides transport-level HTTP middleware shared by the
gateway router.

All middleware uses the standard func(http.Handler) http.Handler shape so
it can be passed straight to chi's Use:

	r.Use(middleware.RequestID)
	r.Group(func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Use(middleware.Compression)
	    r.Get("/api/projects", h.List)
	})

Key Components:

  - RequestID: honors or generates X-Request-ID and seeds the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled by
    chi route pattern so file ids and collection names do not explode cardinality
  - Compression: gzip for JSON and text bodies; images pass through untouched

Tenant authorization is not done here; see internal/api and internal/tenant.
*/
package middleware
