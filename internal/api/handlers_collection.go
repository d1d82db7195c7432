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

// CollectionParam is the chi URL parameter holding the collection name.
const CollectionParam = "collection"

// InsertResponse is returned by POST /api/{collection}.
type InsertResponse struct {
	InsertedID string `json:"insertedId"`
}

// UpdateResponse is returned by PUT /api/{collection}.
type UpdateResponse struct {
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResponse is returned by DELETE /api/{collection}.
type DeleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

// Collection dispatches generic CRUD on /api/{collection} by method.
// Every operation runs against the caller's merchant database.
func (h *Handler) Collection(w http.ResponseWriter, r *http.Request) {
	if !h.store.Ready() {
		respondError(w, r, http.StatusServiceUnavailable, tenant.MsgStoreNotConnected, nil)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.listDocuments(w, r)
	case http.MethodPost:
		h.insertDocument(w, r)
	case http.MethodPut:
		h.updateDocuments(w, r)
	case http.MethodDelete:
		h.deleteDocuments(w, r)
	default:
		respondError(w, r, http.StatusMethodNotAllowed, msgMethodNotAllowed, nil)
	}
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	tc, _ := tenant.FromContext(r.Context())
	query := r.URL.Query()

	limit, skip, err := store.ParsePaging(query)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Limit and skip must be integers", nil)
		return
	}

	req := ListRequest{
		Collection: chi.URLParam(r, CollectionParam),
		Fields:     query.Get("fields"),
		Limit:      limit,
		Skip:       skip,
	}
	if msg := validateRequest(&req); msg != "" {
		respondError(w, r, http.StatusBadRequest, msg, nil)
		return
	}

	docs, err := h.store.Find(r.Context(), tc.MerchantID, req.Collection, store.BuildFilter(query), store.FindOptions{
		Projection: store.BuildProjection(req.Fields),
		Limit:      req.Limit,
		Skip:       req.Skip,
	})
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, nonNil(docs))
}

func (h *Handler) insertDocument(w http.ResponseWriter, r *http.Request) {
	tc, _ := tenant.FromContext(r.Context())
	collection := chi.URLParam(r, CollectionParam)

	body, err := decodeBody(w, r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	doc, err := store.NewDocument(h.newID(), h.now(), body)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, msgInvalidSchedule, err)
		return
	}

	id, err := h.store.Insert(r.Context(), tc.MerchantID, collection, doc)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("merchant_id", tc.MerchantID).
		Str("collection", collection).
		Str("inserted_id", id).
		Msg("Document inserted")

	respondJSON(w, http.StatusCreated, InsertResponse{InsertedID: id})
}

func (h *Handler) updateDocuments(w http.ResponseWriter, r *http.Request) {
	tc, _ := tenant.FromContext(r.Context())
	collection := chi.URLParam(r, CollectionParam)

	filter := store.BuildFilter(r.URL.Query())
	if len(filter) == 0 {
		respondError(w, r, http.StatusBadRequest, msgFilterRequired, nil)
		return
	}

	body, err := decodeBody(w, r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	set, err := store.UpdateSet(h.now(), body)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, msgInvalidSchedule, err)
		return
	}

	modified, err := h.store.UpdateMany(r.Context(), tc.MerchantID, collection, filter, set)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, UpdateResponse{ModifiedCount: modified})
}

func (h *Handler) deleteDocuments(w http.ResponseWriter, r *http.Request) {
	tc, _ := tenant.FromContext(r.Context())
	collection := chi.URLParam(r, CollectionParam)

	filter := store.BuildFilter(r.URL.Query())
	if len(filter) == 0 {
		respondError(w, r, http.StatusBadRequest, msgFilterRequired, nil)
		return
	}

	deleted, err := h.store.DeleteMany(r.Context(), tc.MerchantID, collection, filter)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("merchant_id", tc.MerchantID).
		Str("collection", collection).
		Int64("deleted", deleted).
		Msg("Documents deleted")

	respondJSON(w, http.StatusOK, DeleteResponse{DeletedCount: deleted})
}

// Aggregate handles POST /api/aggregate/{collection} with body {"pipeline": [...]}.
// Write stages and server-side code are rejected before reaching the store.
func (h *Handler) Aggregate(w http.ResponseWriter, r *http.Request) {
	if !h.store.Ready() {
		respondError(w, r, http.StatusServiceUnavailable, tenant.MsgStoreNotConnected, nil)
		return
	}
	tc, _ := tenant.FromContext(r.Context())
	collection := chi.URLParam(r, CollectionParam)

	body, err := decodeBody(w, r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	pipeline, err := store.ValidatePipeline(body["pipeline"])
	if err != nil {
		logging.Ctx(r.Context()).Warn().
			Str("merchant_id", tc.MerchantID).
			Str("collection", collection).
			Err(err).
			Msg("Aggregation rejected")
		respondStoreError(w, r, err)
		return
	}

	docs, err := h.store.Aggregate(r.Context(), tc.MerchantID, collection, pipeline)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, nonNil(docs))
}

// nonNil keeps empty results rendering as [] rather than null.
func nonNil(docs []bson.M) []bson.M {
	if docs == nil {
		return []bson.M{}
	}
	return docs
}
