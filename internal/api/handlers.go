// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/photon/internal/config"
	"github.com/tomtom215/photon/internal/preview"
	"github.com/tomtom215/photon/internal/store"
)

// TokenIssuer issues public viewer tokens. Implemented by tenant.Issuer.
type TokenIssuer interface {
	Issue(ctx context.Context, merchantID, projectID string) (string, error)
}

// Pinger is a dependency checked by the readiness endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the gateway endpoints behind the authorization pipelines.
type Handler struct {
	store     store.Store
	issuer    TokenIssuer
	previews  preview.Source
	cache     Pinger
	links     config.LinksConfig
	startTime time.Time

	now   func() time.Time
	newID func() string
}

// NewHandler creates a Handler. previews and cache may be nil: thumbnail
// routes then answer 404 and readiness ignores the cache.
func NewHandler(st store.Store, issuer TokenIssuer, previews preview.Source, cache Pinger, links config.LinksConfig) *Handler {
	return &Handler{
		store:     st,
		issuer:    issuer,
		previews:  previews,
		cache:     cache,
		links:     links,
		startTime: time.Now(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
	}
}
