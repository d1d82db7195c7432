// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package tenant

// Cache key families. Raw staff tokens are used as opaque session keys.
const (
	merchantIDKeyPrefix  = "merchantId:"
	isActiveKeyPrefix    = "isActive:"
	publicTokenKeyPrefix = "public_token_"
)

// MerchantIDKey is the cache key holding the merchant id resolved for token.
func MerchantIDKey(token string) string {
	return merchantIDKeyPrefix + token
}

// IsActiveKey is the cache key holding the merchant active flag resolved for token.
func IsActiveKey(token string) string {
	return isActiveKeyPrefix + token
}

// PublicTokenKey is the cache key holding the issued public token for a project.
func PublicTokenKey(projectID, merchantID string) string {
	return publicTokenKeyPrefix + projectID + "_" + merchantID
}
