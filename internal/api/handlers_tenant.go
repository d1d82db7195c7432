// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/tomtom215/photon/internal/logging"
	"github.com/tomtom215/photon/internal/tenant"
)

// LinksResponse holds the viewer links for one project.
type LinksResponse struct {
	Track     string `json:"track"`
	Selection string `json:"selection"`
}

// PrivateMerchantDetails is the merchant record returned to staff.
type PrivateMerchantDetails struct {
	MerchantDetails map[string]any `json:"merchantDetails"`
	MerchantID      string         `json:"merchantId"`
	Mail            string         `json:"mail"`
}

// PublicMerchantDetails is the branding returned to public viewers.
type PublicMerchantDetails struct {
	Logo     string `json:"logo"`
	LogoDark string `json:"logoDark"`
}

// ProjectLinks handles GET /api/url?projectId=.
// The token for a (merchant, project) pair is stable while cached, so the
// links can be shared and re-requested freely.
func (h *Handler) ProjectLinks(w http.ResponseWriter, r *http.Request) {
	tc, _ := tenant.FromContext(r.Context())
	projectID := r.URL.Query().Get("projectId")

	token, err := h.issuer.Issue(r.Context(), tc.MerchantID, projectID)
	if err != nil {
		respondTenantError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("merchant_id", tc.MerchantID).
		Str("project_id", sanitizeLogValue(projectID)).
		Msg("Issued project links")

	respondJSON(w, http.StatusOK, LinksResponse{
		Track:     withToken(h.links.TrackingBaseURL, token),
		Selection: withToken(h.links.SelectionBaseURL, token),
	})
}

func withToken(base, token string) string {
	return base + "?token=" + url.QueryEscape(token)
}

// MerchantDetails handles GET /api/merchantDetails.
func (h *Handler) MerchantDetails(w http.ResponseWriter, r *http.Request) {
	tc, _ := tenant.FromContext(r.Context())

	m, ok := h.findMerchant(w, r, tc.MerchantID)
	if !ok {
		return
	}

	details := m.Details
	if details == nil {
		details = map[string]any{}
	}
	respondJSON(w, http.StatusOK, PrivateMerchantDetails{
		MerchantDetails: details,
		MerchantID:      tc.MerchantID,
		Mail:            tc.Email,
	})
}

// PublicMerchantDetails handles GET /public/merchantDetails.
func (h *Handler) PublicMerchantDetails(w http.ResponseWriter, r *http.Request) {
	tc, _ := tenant.FromContext(r.Context())

	m, ok := h.findMerchant(w, r, tc.MerchantID)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, PublicMerchantDetails{
		Logo:     m.Logo,
		LogoDark: m.LogoDark,
	})
}

func (h *Handler) findMerchant(w http.ResponseWriter, r *http.Request, merchantID string) (*tenant.Merchant, bool) {
	if !h.store.Ready() {
		respondError(w, r, http.StatusServiceUnavailable, tenant.MsgStoreNotConnected, nil)
		return nil, false
	}

	m, err := h.store.FindMerchant(r.Context(), merchantID)
	switch {
	case errors.Is(err, tenant.ErrNotFound), err == nil && m == nil:
		respondError(w, r, http.StatusNotFound, msgMerchantNotFound, nil)
		return nil, false
	case err != nil:
		respondStoreError(w, r, err)
		return nil, false
	}
	return m, true
}
