// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

/*
Package services provides suture.Service wrappers for gateway components.

Each wrapper translates a component's own lifecycle into suture's
context-aware Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTPServerService:
  - Wraps *http.Server (ListenAndServe / Shutdown)
  - Drains in-flight requests for the configured shutdown timeout

CacheGCService:
  - Runs value log garbage collection on the badger tenant cache
  - Only added when the badger backend is selected

The store connector lives next to the store it manages (store.Connector)
and is added to the data layer directly.

Returning nil from Serve stops a service for good; returning an error asks
the supervisor to restart it.
*/
package services
