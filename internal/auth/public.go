// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/photon/internal/config"
	"github.com/tomtom215/photon/internal/tenant"
)

// PublicClaims are the claims of a public project token.
type PublicClaims struct {
	MerchantID string `json:"merchantId"`
	ProjectID  string `json:"projectId"`
	jwt.RegisteredClaims
}

// PublicTokenCodec signs and verifies public project tokens with HS256.
type PublicTokenCodec struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
	now    func() time.Time
}

// NewPublicTokenCodec creates a codec keyed by JWTSecret.
// A PublicTokenTTL of zero mints tokens without an expiry, which keeps signing
// deterministic for a given (merchant, project) pair.
func NewPublicTokenCodec(cfg *config.SecurityConfig) (*PublicTokenCodec, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}
	return &PublicTokenCodec{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.PublicTokenTTL,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		now:    time.Now,
	}, nil
}

// SignPublic implements tenant.PublicSigner.
func (c *PublicTokenCodec) SignPublic(claims tenant.PublicClaims) (string, error) {
	pc := &PublicClaims{
		MerchantID: claims.MerchantID,
		ProjectID:  claims.ProjectID,
	}
	if c.ttl > 0 {
		pc.ExpiresAt = jwt.NewNumericDate(c.now().Add(c.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, pc).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a raw public token and returns its claims.
func (c *PublicTokenCodec) Verify(token string) (tenant.PublicClaims, error) {
	claims := &PublicClaims{}
	parsed, err := c.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		recordDecode("public", "invalid")
		return tenant.PublicClaims{}, tenant.Forbidden(tenant.MsgInvalidPublicToken, err)
	}

	if claims.MerchantID == "" || claims.ProjectID == "" {
		recordDecode("public", "claims_missing")
		return tenant.PublicClaims{}, tenant.Forbidden(tenant.MsgPublicClaimsMissing, nil)
	}

	recordDecode("public", "ok")
	return tenant.PublicClaims{MerchantID: claims.MerchantID, ProjectID: claims.ProjectID}, nil
}

// VerifyPublic implements tenant.PublicVerifier.
func (c *PublicTokenCodec) VerifyPublic(authHeader string) (tenant.PublicClaims, error) {
	token, err := ExtractBearer(authHeader)
	if err != nil {
		recordDecode("public", "missing")
		return tenant.PublicClaims{}, err
	}
	return c.Verify(token)
}
