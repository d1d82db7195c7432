// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package tenant

import "context"

// StaffIdentity is the identity claim decoded from a staff bearer token.
// Token is the raw bearer value; it doubles as the tenant cache session key.
type StaffIdentity struct {
	Email string
	Token string
}

// MerchantUser is a staff member record in the merchantUsers collection.
type MerchantUser struct {
	Email      string `bson:"email" json:"email"`
	MerchantID string `bson:"merchantId" json:"merchantId"`
	IsActive   bool   `bson:"isActive" json:"isActive"`
}

// Merchant is a tenant record in the merchants collection.
// Details holds the full document for the merchant details endpoint.
type Merchant struct {
	ID       string         `bson:"id" json:"id"`
	IsActive bool           `bson:"isActive" json:"isActive"`
	Logo     string         `bson:"logo,omitempty" json:"logo,omitempty"`
	LogoDark string         `bson:"logoDark,omitempty" json:"logoDark,omitempty"`
	Details  map[string]any `bson:"-" json:"-"`
}

// Context is the request-scoped tenant context produced by a pipeline.
// It is never persisted; only the cache entries that back it outlive the request.
type Context struct {
	MerchantID       string
	IsActiveMerchant bool
	Email            string
	ProjectID        string
}

// PublicClaims are the verified claims of a public project token.
type PublicClaims struct {
	MerchantID string
	ProjectID  string
}

type contextKey string

const tenantContextKey contextKey = "tenant_context"

// WithContext returns a copy of ctx carrying tc.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, tenantContextKey, tc)
}

// FromContext returns the tenant context attached by a pipeline.
func FromContext(ctx context.Context) (Context, bool) {
	tc, ok := ctx.Value(tenantContextKey).(Context)
	return tc, ok
}
