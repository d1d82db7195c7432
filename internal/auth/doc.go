// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

/*
Package auth decodes and verifies the two credential shapes the gateway accepts.

Key Components:

  - ExtractBearer: pulls the token out of "Authorization: Bearer <token>"
  - StaffDecoder: reads the email claim of a staff identity token
  - PublicTokenCodec: signs and verifies HS256 public project tokens

Staff Tokens:

Staff tokens are issued by an external identity provider. In the default
"decode" mode only the payload is read; the token is then used as an opaque
tenant cache key and resolved against the merchant registry. The "verify"
mode additionally checks an HS256 signature with STAFF_JWT_SECRET before the
email claim is trusted.

	decoder, err := auth.NewStaffDecoder(&cfg.Security)
	id, err := decoder.DecodeStaff(r.Header.Get("Authorization"))

Public Tokens:

Public project tokens carry {merchantId, projectId} and are minted by the
gateway itself with JWT_SECRET. Signing is deterministic for a given pair
unless a token TTL is configured.

	codec, err := auth.NewPublicTokenCodec(&cfg.Security)
	token, err := codec.SignPublic(tenant.PublicClaims{MerchantID: "m1", ProjectID: "p1"})
	claims, err := codec.VerifyPublic("Bearer " + token)

All failures are returned as *tenant.Error values so the pipeline can map
them to response statuses without inspecting JWT library errors.
*/
package auth
