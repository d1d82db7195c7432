// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/photon/internal/logging"
	"github.com/tomtom215/photon/internal/store"
	"github.com/tomtom215/photon/internal/tenant"
)

// User-facing messages not owned by internal/tenant.
const (
	msgInternal            = "Internal Server Error"
	msgNotFound            = "Not found"
	msgMethodNotAllowed    = "Method not allowed"
	msgTooManyRequests     = "Too many requests"
	msgInvalidBody         = "Invalid JSON body"
	msgFilterRequired      = "Provide filter via query"
	msgPipelineNotArray    = "Pipeline must be an array"
	msgForbiddenAggregate  = "Forbidden aggregation operators"
	msgInvalidSchedule     = "Invalid startDateTime or endDateTime"
	msgMerchantNotFound    = "Merchant not found"
	msgFileIDMissing       = "File id not found"
	msgInvalidFileID       = "Invalid file id"
	msgNoThumbnail         = "No thumbnail available for this file"
	msgFetchThumbnailError = "Error fetching thumbnail"
	msgNoDeliverables      = "No deliverables found"
	msgProjectMismatch     = "Token not valid for this project"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// respondJSON writes v as JSON with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes an error body. err is logged, never returned to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Debug()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.Int("status", status).
			Str("method", r.Method).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}
	respondJSON(w, status, ErrorResponse{Error: true, Message: message})
}

// respondTenantError maps a tenant error kind to its status and message.
// Internal errors always get the generic message.
func respondTenantError(w http.ResponseWriter, r *http.Request, err error) {
	kind := tenant.KindOf(err)
	message := tenant.MessageOf(err)
	if kind == tenant.KindInternal {
		message = msgInternal
	}
	respondError(w, r, kind.HTTPStatus(), message, err)
}

// respondStoreError maps document store failures.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tenant.ErrStoreUnavailable):
		respondError(w, r, http.StatusServiceUnavailable, tenant.MsgStoreNotConnected, err)
	case errors.Is(err, store.ErrPipelineNotArray):
		respondError(w, r, http.StatusBadRequest, msgPipelineNotArray, nil)
	case errors.Is(err, store.ErrForbiddenOperator):
		respondError(w, r, http.StatusBadRequest, msgForbiddenAggregate, nil)
	case errors.Is(err, tenant.ErrNotFound):
		respondError(w, r, http.StatusNotFound, msgNotFound, nil)
	default:
		respondError(w, r, http.StatusInternalServerError, msgInternal, err)
	}
}

// sanitizeLogValue escapes control characters so request data cannot forge log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
