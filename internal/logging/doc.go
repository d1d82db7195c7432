// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

// Package logging provides the zerolog-based global logger for the gateway.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("addr", addr).Msg("Server starting")
//	logging.Ctx(ctx).Warn().Str("stage", stage).Msg("Request rejected")
//
// Request and correlation ids placed in the context by the HTTP middleware are
// added to every line written through Ctx.
//
// Bearer tokens are opaque session keys and must never be written to logs.
// Use Fingerprint when a log line needs to correlate requests that share a token,
// and RedactEmail for staff identities.
//
// The slog adapter bridges zerolog to libraries that require a *slog.Logger,
// such as the suture supervisor event hook.
package logging
