// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

/*
Package tenant implements tenant resolution and request authorization.

Every request entering the gateway is scoped to a merchant. Staff requests
carry a bearer token whose email claim is resolved to a merchant through the
system-of-record store, with the result cached under the raw token. Public
viewer requests carry a signed project token minted by the Issuer, which
already names the merchant and project.

Key Components:

  - Resolver: email + token -> Context, cache first, store on miss
  - Issuer: deterministic, cached public project tokens
  - CollectionGatekeeper: static allow-list for collection-scoped routes
  - Pipeline: ordered stages run by a single short-circuiting runner

The package owns the ports it depends on (CachePort, StorePort, StaffDecoder,
PublicTokenCodec). Adapters live in internal/cache, internal/store and
internal/auth and are injected at construction time.

Pipelines:

	private := tenant.NewPrivatePipeline(decoder, resolver)
	rc, err := private.Run(ctx, tenant.RequestContext{Authorization: header})
	if err != nil {
	    status := tenant.KindOf(err).HTTPStatus()
	    ...
	}
	merchantID := rc.Tenant.MerchantID

Errors:

All pipeline failures are *Error values carrying a Kind. Kinds map one-to-one
onto HTTP statuses: Unauthenticated (401), Forbidden (403), NotFound (404),
ServiceUnavailable (503) and Internal (500).
*/
package tenant
