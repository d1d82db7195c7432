// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

/*
Package store is the MongoDB system of record.

Layout:

  - Root database (store.database, default "crud"): the read-only merchants and
    merchantUsers collections used by the merchant resolver.
  - One database per merchant, named after the merchant id: the tenant
    collections served by the generic CRUD and aggregate endpoints.

MongoStore implements tenant.StorePort and the Documents interface. It starts
disconnected; Connect is retried by the supervisor until it succeeds, and every
call made before that returns tenant.ErrStoreUnavailable.

BreakerStore wraps any Store with a sony/gobreaker circuit breaker so that a
failing database is rejected quickly instead of tying up request goroutines.
A lookup that finds nothing is not counted as a failure.

Query helpers translate HTTP query strings into filters the same way for every
collection:

	GET /api/projects?status=open&archived=false&fields=name,client&limit=20

becomes

	filter:     {status: "open", archived: false}
	projection: {name: 1, client: 1}
	options:    limit 20, skip 0, sort createdAt desc
*/
package store
