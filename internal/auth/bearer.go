// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package auth

import (
	"strings"

	"github.com/tomtom215/photon/internal/tenant"
)

// ExtractBearer returns the token from an Authorization header value.
// Anything other than "Bearer <token>" is reported as a missing token.
func ExtractBearer(authHeader string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", tenant.Unauthenticated(tenant.MsgMissingBearer, nil)
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", tenant.Unauthenticated(tenant.MsgMissingBearer, nil)
	}
	return token, nil
}
