// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

/*
Package main is the entry point for the Photon gateway.

Photon fronts a multi-tenant photography studio backend. Staff requests under
/api carry an identity-provider bearer token that is resolved to a merchant
through the tenant cache (Redis or badger) and the MongoDB system of record.
Client viewer requests under /public carry a project token minted by
GET /api/url.

# Application Architecture

	RootSupervisor ("photon")
	├── DataSupervisor ("data-layer")
	│   ├── store-connector (MongoDB, retried until connected)
	│   └── cache-gc        (badger backend only)
	└── APISupervisor ("api-layer")
	    └── http-server

Component initialization order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog with JSON/console output
 3. Tenant cache: Redis, badger or in-memory
 4. Store: MongoDB behind a gobreaker circuit breaker
 5. Tokens: staff decoder and public token codec (golang-jwt)
 6. Tenant: resolver, issuer, collection gatekeeper and both pipelines
 7. Preview proxy (optional)
 8. HTTP: Chi router with CORS, httprate and Prometheus middleware
 9. Supervisor tree

# Configuration

Required:
  - JWT_SECRET: HMAC key for public project tokens (32+ characters in production)
  - PHOTON_TRACKING_APP_BASE_URL, PHOTON_SELECT_APP_BASE_URL: viewer app links

Common:
  - PORT (default 3001)
  - MONGO_URI, MONGO_USERNAME, MONGO_PASSWORD, MONGO_DB_NAME
  - REDIS_URL or REDIS_DB_HOST / REDIS_DB_PORT / REDIS_DB_PASSWORD
  - CACHE_BACKEND: redis (default), badger or memory
  - MONGO_COLLECTIONS: comma-separated collection allow-list
  - STAFF_TOKEN_MODE: decode (default) or verify with STAFF_JWT_SECRET
  - LOG_LEVEL, LOG_FORMAT

# Signal Handling

SIGINT and SIGTERM cancel the supervisor context. The HTTP server drains
in-flight requests for SHUTDOWN_TIMEOUT, the store connector disconnects from
MongoDB, and the tenant cache is closed last.

# Example Usage

	export JWT_SECRET=$(openssl rand -base64 48)
	export MONGO_URI=mongodb://localhost:27017
	export REDIS_URL=redis://localhost:6379/0
	export PHOTON_TRACKING_APP_BASE_URL=https://track.example.com/view
	export PHOTON_SELECT_APP_BASE_URL=https://select.example.com/pick
	./photon
*/
package main
