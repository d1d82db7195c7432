// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/photon/internal/config"
	"github.com/tomtom215/photon/internal/tenant"
)

// StaffClaims is the subset of the staff identity token the gateway reads.
type StaffClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// StaffDecoder extracts the staff identity from a bearer token.
type StaffDecoder struct {
	verify bool
	secret []byte
	parser *jwt.Parser
}

// NewStaffDecoder creates a decoder for the configured staff token mode.
//
// In decode mode the signature is not checked: the token is an opaque session
// key and the email is resolved against the merchant registry. In verify mode
// the token must carry a valid HS256 signature from StaffJWTSecret and must not
// be expired.
func NewStaffDecoder(cfg *config.SecurityConfig) (*StaffDecoder, error) {
	switch cfg.StaffTokenMode {
	case config.StaffTokenDecode, "":
		return &StaffDecoder{parser: jwt.NewParser()}, nil
	case config.StaffTokenVerify:
		if cfg.StaffJWTSecret == "" {
			return nil, fmt.Errorf("STAFF_JWT_SECRET is required when STAFF_TOKEN_MODE=verify")
		}
		return &StaffDecoder{
			verify: true,
			secret: []byte(cfg.StaffJWTSecret),
			parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		}, nil
	default:
		return nil, fmt.Errorf("unknown staff token mode %q", cfg.StaffTokenMode)
	}
}

// Verifies reports whether signatures are checked.
func (d *StaffDecoder) Verifies() bool {
	return d.verify
}

// DecodeStaff implements tenant.StaffDecoder.
func (d *StaffDecoder) DecodeStaff(authHeader string) (tenant.StaffIdentity, error) {
	token, err := ExtractBearer(authHeader)
	if err != nil {
		recordDecode("staff", "missing")
		return tenant.StaffIdentity{}, err
	}

	claims := &StaffClaims{}
	if d.verify {
		_, err = d.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return d.secret, nil
		})
	} else {
		_, _, err = d.parser.ParseUnverified(token, claims)
	}
	if err != nil {
		recordDecode("staff", "invalid")
		return tenant.StaffIdentity{}, tenant.Unauthenticated(tenant.MsgInvalidStaffToken, err)
	}

	if claims.Email == "" {
		recordDecode("staff", "no_email")
		return tenant.StaffIdentity{}, tenant.Unauthenticated(tenant.MsgMissingEmail, nil)
	}

	recordDecode("staff", "ok")
	return tenant.StaffIdentity{Email: claims.Email, Token: token}, nil
}
