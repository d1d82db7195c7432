// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package tenant

import (
	"context"
	"time"
)

// CachePort is the tenant cache. Implementations must be safe for concurrent use.
type CachePort interface {
	// Get returns the value for key. found is false when the key is absent or expired.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key. A ttl of zero means the entry does not expire.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// StorePort is the read-only view of the system-of-record store.
// Lookups that match nothing return ErrNotFound.
type StorePort interface {
	FindMerchantUser(ctx context.Context, email string) (*MerchantUser, error)
	FindMerchant(ctx context.Context, merchantID string) (*Merchant, error)
}

// StaffDecoder turns an Authorization header value into a staff identity.
type StaffDecoder interface {
	DecodeStaff(authorization string) (StaffIdentity, error)
}

// PublicVerifier verifies the public project token carried in an Authorization header value.
type PublicVerifier interface {
	VerifyPublic(authorization string) (PublicClaims, error)
}

// PublicSigner mints public project tokens.
type PublicSigner interface {
	SignPublic(claims PublicClaims) (string, error)
}

// PublicCodec mints public project tokens and reads back their claims.
type PublicCodec interface {
	PublicSigner
	Verify(token string) (PublicClaims, error)
}
