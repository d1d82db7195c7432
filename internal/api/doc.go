// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

/*
Package api provides the HTTP surface of the gateway.

Routes are registered on a chi router by Router.SetupChi:

	GET  /health/live               liveness check
	GET  /health/ready              503 until the store is connected
	GET  /metrics                   Prometheus exposition

	/api/*                          staff bearer token, private pipeline
	GET  /api/url?projectId=        public viewer links for a project
	GET  /api/merchantDetails       merchant record of the caller
	POST /api/aggregate/{collection}
	*    /api/{collection}          generic CRUD, GET POST PUT DELETE

	/public/*                       public token, public pipeline
	GET  /public/merchantDetails    logo and logoDark
	GET  /public/thumbnail/{fileId} no token required
	GET  /public/preview/{fileId}   no token required

The private and public pipelines come from internal/tenant and run as chi
middleware. On success the resolved tenant.Context is attached to the request
context and handlers read it with tenant.FromContext. Collection routes are
additionally gated by tenant.CollectionGatekeeper.

Every error is rendered as

	{"error": true, "message": "..."}

with the status taken from the tenant error kind: 401, 403, 404, 503, or 500
with a generic message for unexpected failures.
*/
package api
