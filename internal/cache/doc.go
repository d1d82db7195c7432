// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

/*
Package cache provides the tenant cache adapters behind tenant.CachePort.

The gateway keeps two families of string entries in the cache:

  - merchantId:<token> and isActive:<token>, written by the merchant resolver
    with the tenant cache TTL (55 minutes by default)
  - public_token_<projectId>_<merchantId>, written by the public token issuer
    without an expiry

Backends:

  - RedisCache: shared Redis instance, the production backend
  - BadgerCache: embedded BadgerDB for single-node deployments
  - MemoryCache: process-local TTL map for development and tests

All backends are safe for concurrent use. A TTL of zero means the entry never
expires. A miss is reported as (value "", found false, err nil); an error is
only returned when the backend itself fails.

Usage:

	c, err := cache.New(cfg.Cache)
	if err != nil {
	    return err
	}
	defer c.Close()

	resolver := tenant.NewResolver(c, store, tenant.ResolverOptions{})

Every backend reports operation timings through Prometheus (see metrics.go).
*/
package cache
