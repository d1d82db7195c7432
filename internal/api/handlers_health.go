// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package api

import (
	"context"
	"net/http"
	"time"
)

// readinessTimeout bounds each dependency check of the readiness check.
const readinessTimeout = 2 * time.Second

// HealthStatus is the body of both health endpoints.
type HealthStatus struct {
	Status         string  `json:"status"`
	Uptime         float64 `json:"uptime"`
	StoreConnected *bool   `json:"store_connected,omitempty"`
	CacheConnected *bool   `json:"cache_connected,omitempty"`
}

// HealthLive handles liveness check requests.
// Returns 200 while the process is running, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, HealthStatus{
		Status: "alive",
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness check requests.
// Returns 503 until the store is connected and, when configured, the cache answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	storeOK := h.store.Ready()
	status := HealthStatus{
		Status:         "ready",
		Uptime:         time.Since(h.startTime).Seconds(),
		StoreConnected: &storeOK,
	}
	ready := storeOK

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		cacheOK := h.cache.Ping(ctx) == nil
		cancel()
		status.CacheConnected = &cacheOK
		ready = ready && cacheOK
	}

	if !ready {
		status.Status = "not_ready"
		respondJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	respondJSON(w, http.StatusOK, status)
}
