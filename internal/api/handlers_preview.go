// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/photon/internal/logging"
	"github.com/tomtom215/photon/internal/preview"
)

// FileIDParam is the chi URL parameter holding the file id.
const FileIDParam = "fileId"

// ImageCacheControl marks proxied images as immutable; a file id never changes content.
const ImageCacheControl = "public, max-age=31536000, immutable"

// Thumbnail handles GET /public/thumbnail/{fileId}.
func (h *Handler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	h.serveImage(w, r, preview.Thumbnail)
}

// Preview handles GET /public/preview/{fileId}.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	h.serveImage(w, r, preview.Preview)
}

func (h *Handler) serveImage(w http.ResponseWriter, r *http.Request, variant preview.Variant) {
	req := FileRequest{FileID: chi.URLParam(r, FileIDParam)}
	if req.FileID == "" {
		respondError(w, r, http.StatusForbidden, msgFileIDMissing, nil)
		return
	}
	if msg := validateRequest(&req); msg != "" {
		respondError(w, r, http.StatusBadRequest, msgInvalidFileID, nil)
		return
	}
	if h.previews == nil {
		respondError(w, r, http.StatusNotFound, msgNoThumbnail, nil)
		return
	}

	etag := `"` + req.FileID + `"`
	if r.Header.Get("If-None-Match") == etag {
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", ImageCacheControl)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	img, err := h.previews.Fetch(r.Context(), req.FileID, variant)
	switch {
	case errors.Is(err, preview.ErrNoThumbnail):
		respondError(w, r, http.StatusNotFound, msgNoThumbnail, nil)
		return
	case err != nil:
		logging.Ctx(r.Context()).Error().
			Err(err).
			Str("file_id", req.FileID).
			Str("variant", string(variant)).
			Msg("Image fetch failed")
		respondError(w, r, http.StatusInternalServerError, msgFetchThumbnailError, nil)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", ImageCacheControl)
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img.Data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Client went away during image write")
	}
}
