// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/photon/internal/auth"
	"github.com/tomtom215/photon/internal/config"
	"github.com/tomtom215/photon/internal/metrics"
	"github.com/tomtom215/photon/internal/tenant"
)

func TestRouterSetup_HealthEndpoints(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/health/live", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("live status = %d", rec.Code)
	}
	if got := decodeJSON[HealthStatus](t, rec); got.Status != "alive" {
		t.Errorf("live status = %q", got.Status)
	}

	rec = h.do(http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("ready status = %d", rec.Code)
	}

	h.store.setReady(false)
	rec = h.do(http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready status with store down = %d, want 503", rec.Code)
	}
	got := decodeJSON[HealthStatus](t, rec)
	if got.Status != "not_ready" || got.StoreConnected == nil || *got.StoreConnected {
		t.Errorf("ready body = %+v", got)
	}
}

func TestRouterSetup_ReadinessChecksCache(t *testing.T) {
	tests := []struct {
		name   string
		pinger Pinger
		want   int
	}{
		{"cache up", fakePinger{}, http.StatusOK},
		{"cache down", fakePinger{err: errBoom}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, withPinger(tt.pinger))
			rec := h.do(http.MethodGet, "/health/ready", "", "")
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if got := decodeJSON[HealthStatus](t, rec); got.CacheConnected == nil {
				t.Error("cache_connected missing from readiness body")
			}
		})
	}
}

func TestRouterSetup_MetricsEndpoint(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/api/url?projectId=p1", "", "")

	rec := h.do(http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	for _, name := range []string{"api_requests_total", "pipeline_decisions_total"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}

func TestRouterSetup_NotFoundIsJSON(t *testing.T) {
	h := newHarness(t)
	assertError(t, h.do(http.MethodGet, "/nope", "", ""), http.StatusNotFound, msgNotFound)
}

func TestRouterSetup_RequestIDHeader(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/health/live", "", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestPrivatePipeline_Rejections(t *testing.T) {
	tests := []struct {
		name          string
		authorization string
		status        int
		message       string
	}{
		{"missing header", "", http.StatusUnauthorized, tenant.MsgMissingBearer},
		{"not bearer", "Basic abc", http.StatusUnauthorized, tenant.MsgMissingBearer},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, tenant.MsgInvalidStaffToken},
		{"disabled merchant", staffToken(t, "d@x.com"), http.StatusForbidden, tenant.MsgMerchantDisabled},
		{
			"unknown user", staffToken(t, "ghost@x.com"), http.StatusForbidden,
			"user with ghost@x.com is not registered or disabled. Please reach out to us!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			rec := h.do(http.MethodGet, "/api/projects", tt.authorization, "")
			assertError(t, rec, tt.status, tt.message)
			if h.store.callCount() != 0 {
				t.Error("handler must not run for a rejected request")
			}
		})
	}
}

func TestPrivatePipeline_DisabledAndMissingAreDistinct(t *testing.T) {
	h := newHarness(t)
	disabled := h.do(http.MethodGet, "/api/merchantDetails", staffToken(t, "d@x.com"), "")
	missing := h.do(http.MethodGet, "/api/merchantDetails", staffToken(t, "ghost@x.com"), "")

	if disabled.Body.String() == missing.Body.String() {
		t.Errorf("disabled merchant and unknown user produced the same body %s", disabled.Body.String())
	}
}

func TestPrivatePipeline_SecondRequestUsesCache(t *testing.T) {
	h := newHarness(t)
	token := staffToken(t, "a@x.com")

	if rec := h.do(http.MethodGet, "/api/projects", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("first status = %d", rec.Code)
	}

	// Removing the user from the store proves the second request never reads it.
	h.store.mu.Lock()
	delete(h.store.users, "a@x.com")
	h.store.mu.Unlock()

	if rec := h.do(http.MethodGet, "/api/projects", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("second status = %d, want cached admission", rec.Code)
	}

	raw := strings.TrimPrefix(token, "Bearer ")
	if v, ok, _ := h.cache.Get(t.Context(), tenant.MerchantIDKey(raw)); !ok || v != "m1" {
		t.Errorf("cached merchantId = %q, %v", v, ok)
	}
}

func TestPublicPipeline_Rejections(t *testing.T) {
	h := newHarness(t)

	assertError(t, h.do(http.MethodGet, "/public/merchantDetails", "", ""),
		http.StatusUnauthorized, tenant.MsgMissingBearer)

	otherCodec, err := auth.NewPublicTokenCodec(&config.SecurityConfig{JWTSecret: "someone-else"})
	if err != nil {
		t.Fatalf("NewPublicTokenCodec: %v", err)
	}
	forged, err := otherCodec.SignPublic(tenant.PublicClaims{MerchantID: "m1", ProjectID: "p1"})
	if err != nil {
		t.Fatalf("SignPublic: %v", err)
	}
	assertError(t, h.do(http.MethodGet, "/public/merchantDetails", "Bearer "+forged, ""),
		http.StatusForbidden, tenant.MsgInvalidPublicToken)
	if h.store.callCount() != 0 {
		t.Error("store reached with a forged token")
	}
}

func TestPublicPipeline_BypassesImages(t *testing.T) {
	h := newHarness(t)

	before := testutil.ToFloat64(metrics.PipelineDecisions.WithLabelValues(tenant.PublicPipeline, "admitted", ""))
	rec := h.do(http.MethodGet, "/public/thumbnail/abc123", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 without Authorization", rec.Code)
	}
	after := testutil.ToFloat64(metrics.PipelineDecisions.WithLabelValues(tenant.PublicPipeline, "admitted", ""))
	if after != before {
		t.Error("public pipeline ran for a bypassed path")
	}

	// Deeper paths are not on the bypass list.
	assertError(t, h.do(http.MethodGet, "/public/thumbnail/abc123/extra", "", ""),
		http.StatusUnauthorized, tenant.MsgMissingBearer)
}

func TestRateLimit_JSONRejection(t *testing.T) {
	h := newHarness(t, withRateLimit(2))
	token := staffToken(t, "a@x.com")

	before := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues("api"))
	for i := 0; i < 2; i++ {
		if rec := h.do(http.MethodGet, "/api/projects", token, ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	assertError(t, h.do(http.MethodGet, "/api/projects", token, ""), http.StatusTooManyRequests, msgTooManyRequests)

	if got := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues("api")) - before; got != 1 {
		t.Errorf("rate limit hits delta = %v, want 1", got)
	}

	// Health is outside the limited groups.
	if rec := h.do(http.MethodGet, "/health/live", "", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestRouterSetup_CORSHeaders(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("Origin", "https://studio.example.com")
	rec := httptest.NewRecorder()
	h.server.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}

	preflight := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	preflight.Header.Set("Origin", "https://studio.example.com")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPut)
	preflight.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec = httptest.NewRecorder()
	h.server.ServeHTTP(rec, preflight)

	if rec.Code != http.StatusOK && rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("Access-Control-Allow-Methods missing on preflight")
	}
}
