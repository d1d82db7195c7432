// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tomtom215/photon/internal/logging"
	"github.com/tomtom215/photon/internal/store"
	"github.com/tomtom215/photon/internal/tenant"
)

// ProjectIDParam is the chi URL parameter holding the project id.
const ProjectIDParam = "projectId"

// TrackDeliverables handles GET /public/track/{projectId}.
// It returns the project's deliverables and counts the visit on the project.
func (h *Handler) TrackDeliverables(w http.ResponseWriter, r *http.Request) {
	tc, _ := tenant.FromContext(r.Context())
	projectID := chi.URLParam(r, ProjectIDParam)

	if projectID != tc.ProjectID {
		logging.Ctx(r.Context()).Warn().
			Str("merchant_id", tc.MerchantID).
			Str("token_project_id", tc.ProjectID).
			Str("path_project_id", sanitizeLogValue(projectID)).
			Msg("Public token used for another project")
		respondError(w, r, http.StatusForbidden, msgProjectMismatch, nil)
		return
	}
	if !h.store.Ready() {
		respondError(w, r, http.StatusServiceUnavailable, tenant.MsgStoreNotConnected, nil)
		return
	}

	docs, err := h.store.Aggregate(r.Context(), tc.MerchantID, store.ProjectDeliverablesCollection,
		store.TrackDeliverablesPipeline(projectID))
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if len(docs) == 0 {
		respondError(w, r, http.StatusNotFound, msgNoDeliverables, nil)
		return
	}

	// The visit counter is best effort; the viewer still gets the report.
	if err := h.store.MarkTracked(r.Context(), tc.MerchantID, projectID, h.now()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).
			Str("merchant_id", tc.MerchantID).
			Str("project_id", projectID).
			Msg("Failed to record project visit")
	}

	respondJSON(w, http.StatusOK, docs[0])
}

// OccupiedIDs handles POST /api/analytics/getOccupiedIds with body
// {"startDateTime": ..., "endDateTime": ...}. It replies with the employees
// booked on any event overlapping the window, or [] when none are.
func (h *Handler) OccupiedIDs(w http.ResponseWriter, r *http.Request) {
	if !h.store.Ready() {
		respondError(w, r, http.StatusServiceUnavailable, tenant.MsgStoreNotConnected, nil)
		return
	}
	tc, _ := tenant.FromContext(r.Context())

	body, err := decodeBody(w, r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	req, err := newWindowRequest(body)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, msgInvalidSchedule, err)
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondError(w, r, http.StatusBadRequest, msg, nil)
		return
	}

	docs, err := h.store.Aggregate(r.Context(), tc.MerchantID, store.EventsCollection,
		store.OccupiedIDsPipeline(req.StartDateTime, req.EndDateTime))
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if len(docs) == 0 {
		respondJSON(w, http.StatusOK, []bson.M{})
		return
	}
	respondJSON(w, http.StatusOK, docs[0])
}
