// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package tenant

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tomtom215/photon/internal/logging"
	"github.com/tomtom215/photon/internal/metrics"
)

// DefaultTenantTTL is how long resolved tenant facts stay cached.
const DefaultTenantTTL = 55 * time.Minute

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// TTL applied to both tenant cache entries. Zero means DefaultTenantTTL.
	TTL time.Duration

	// CacheTimeout bounds each cache call. Zero means no extra bound.
	CacheTimeout time.Duration

	// StoreTimeout bounds each store lookup. Zero means no extra bound.
	StoreTimeout time.Duration
}

// Resolver maps a staff identity to its merchant, cache first.
//
// The cache is an optimization only: read failures fall through to the store
// and write failures are logged and dropped. Store failures fail closed.
type Resolver struct {
	cache CachePort
	store StorePort
	opts  ResolverOptions
}

// NewResolver creates a Resolver over the given ports.
func NewResolver(cache CachePort, store StorePort, opts ResolverOptions) *Resolver {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTenantTTL
	}
	return &Resolver{cache: cache, store: store, opts: opts}
}

// Resolve returns the tenant context for email, keyed in the cache by token.
func (r *Resolver) Resolve(ctx context.Context, email, token string) (Context, error) {
	if tc, ok := r.lookupCached(ctx, token); ok {
		metrics.RecordTenantCacheLookup(true)
		logging.Ctx(ctx).Debug().
			Str("token_fp", logging.Fingerprint(token)).
			Msg("Tenant cache hit")
		tc.Email = email
		return tc, nil
	}
	metrics.RecordTenantCacheLookup(false)

	user, err := r.findUser(ctx, email)
	if err != nil {
		return Context{}, err
	}

	isActiveMerchant, err := r.merchantActive(ctx, user.MerchantID)
	if err != nil {
		return Context{}, err
	}

	r.remember(ctx, token, user.MerchantID, isActiveMerchant)

	return Context{
		MerchantID:       user.MerchantID,
		IsActiveMerchant: isActiveMerchant,
		Email:            email,
	}, nil
}

// lookupCached reports a hit only when both entries are present and well formed.
func (r *Resolver) lookupCached(ctx context.Context, token string) (Context, bool) {
	cctx, cancel := boundedContext(ctx, r.opts.CacheTimeout)
	defer cancel()

	merchantID, found, err := r.cache.Get(cctx, MerchantIDKey(token))
	if err != nil {
		r.cacheError(ctx, "get", err)
		return Context{}, false
	}
	if !found || merchantID == "" {
		return Context{}, false
	}

	rawActive, found, err := r.cache.Get(cctx, IsActiveKey(token))
	if err != nil {
		r.cacheError(ctx, "get", err)
		return Context{}, false
	}
	if !found {
		return Context{}, false
	}

	isActive, err := strconv.ParseBool(rawActive)
	if err != nil {
		logging.Ctx(ctx).Warn().Str("value", rawActive).Msg("Ignoring malformed cached active flag")
		return Context{}, false
	}

	return Context{MerchantID: merchantID, IsActiveMerchant: isActive}, true
}

func (r *Resolver) findUser(ctx context.Context, email string) (*MerchantUser, error) {
	sctx, cancel := boundedContext(ctx, r.opts.StoreTimeout)
	defer cancel()

	user, err := r.store.FindMerchantUser(sctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, Forbidden(fmt.Sprintf(msgUserNotRegisteredFmt, email), nil)
	case err != nil:
		logging.Ctx(ctx).Error().Err(err).Msg("Merchant user lookup failed")
		return nil, Unauthenticated(MsgInvalidStaffToken, fmt.Errorf("find merchant user: %w", err))
	case user == nil || !user.IsActive:
		return nil, Forbidden(fmt.Sprintf(msgUserNotRegisteredFmt, email), nil)
	}
	return user, nil
}

// merchantActive treats an absent merchant as inactive.
func (r *Resolver) merchantActive(ctx context.Context, merchantID string) (bool, error) {
	if merchantID == "" {
		return false, nil
	}

	sctx, cancel := boundedContext(ctx, r.opts.StoreTimeout)
	defer cancel()

	merchant, err := r.store.FindMerchant(sctx, merchantID)
	switch {
	case errors.Is(err, ErrNotFound):
		return false, nil
	case err != nil:
		logging.Ctx(ctx).Error().Err(err).Str("merchant_id", merchantID).Msg("Merchant lookup failed")
		return false, Unauthenticated(MsgInvalidStaffToken, fmt.Errorf("find merchant: %w", err))
	case merchant == nil:
		return false, nil
	}
	return merchant.IsActive, nil
}

func (r *Resolver) remember(ctx context.Context, token, merchantID string, isActive bool) {
	cctx, cancel := boundedContext(ctx, r.opts.CacheTimeout)
	defer cancel()

	if err := r.cache.Set(cctx, MerchantIDKey(token), merchantID, r.opts.TTL); err != nil {
		r.cacheError(ctx, "set", err)
		return
	}
	if err := r.cache.Set(cctx, IsActiveKey(token), strconv.FormatBool(isActive), r.opts.TTL); err != nil {
		r.cacheError(ctx, "set", err)
	}
}

func (r *Resolver) cacheError(ctx context.Context, op string, err error) {
	metrics.RecordTenantCacheError(op)
	logging.Ctx(ctx).Warn().Err(err).Str("operation", op).Msg("Tenant cache unavailable, continuing without it")
}
