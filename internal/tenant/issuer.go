// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package tenant

import (
	"context"
	"time"

	"github.com/tomtom215/photon/internal/logging"
	"github.com/tomtom215/photon/internal/metrics"
)

// IssuerOptions configures an Issuer.
type IssuerOptions struct {
	// TTL of the cached token. Zero keeps it until evicted.
	TTL time.Duration

	// CacheTimeout bounds each cache call.
	CacheTimeout time.Duration
}

// Issuer hands out one public token per (merchant, project) pair while the
// cache entry survives.
type Issuer struct {
	cache CachePort
	codec PublicCodec
	opts  IssuerOptions
}

// NewIssuer creates an Issuer.
func NewIssuer(cache CachePort, codec PublicCodec, opts IssuerOptions) *Issuer {
	return &Issuer{cache: cache, codec: codec, opts: opts}
}

// Issue returns the cached token for the pair, or signs and caches a new one.
// A cache read failure is treated as a miss; the signer is deterministic for a
// fixed pair, so a re-sign yields the same token.
//
// The cache key joins both ids with "_", so distinct pairs can share a key.
// A cached token is only returned when its claims name this exact pair.
func (i *Issuer) Issue(ctx context.Context, merchantID, projectID string) (string, error) {
	if merchantID == "" || projectID == "" {
		return "", NotFound(MsgIssuerIDsMissing, nil)
	}

	key := PublicTokenKey(projectID, merchantID)

	cctx, cancel := boundedContext(ctx, i.opts.CacheTimeout)
	defer cancel()

	token, found, err := i.cache.Get(cctx, key)
	if err != nil {
		metrics.RecordTenantCacheError("get")
		logging.Ctx(ctx).Warn().Err(err).Msg("Public token cache read failed, signing")
	}
	if err == nil && found && token != "" {
		if i.ownsToken(token, merchantID, projectID) {
			metrics.RecordPublicTokenIssued(true)
			return token, nil
		}
		logging.Ctx(ctx).Warn().
			Str("merchant_id", merchantID).
			Msg("Cached public token belongs to another pair, re-signing")
	}

	token, err = i.codec.SignPublic(PublicClaims{MerchantID: merchantID, ProjectID: projectID})
	if err != nil {
		return "", Internal("Unable to issue token", err)
	}

	if err := i.cache.Set(cctx, key, token, i.opts.TTL); err != nil {
		metrics.RecordTenantCacheError("set")
		logging.Ctx(ctx).Warn().Err(err).Msg("Public token cache write failed")
	}

	metrics.RecordPublicTokenIssued(false)
	logging.Ctx(ctx).Info().
		Str("merchant_id", merchantID).
		Str("project_id", projectID).
		Msg("Issued public project token")
	return token, nil
}

func (i *Issuer) ownsToken(token, merchantID, projectID string) bool {
	claims, err := i.codec.Verify(token)
	if err != nil {
		return false
	}
	return claims.MerchantID == merchantID && claims.ProjectID == projectID
}
