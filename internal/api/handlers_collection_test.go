// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tomtom215/photon/internal/store"
	"github.com/tomtom215/photon/internal/tenant"
)

func TestCollection_Gatekeeper(t *testing.T) {
	h := newHarness(t)
	token := staffToken(t, "a@x.com")

	for _, name := range []string{"merchants", "merchantUsers", "arbitraryName"} {
		t.Run(name, func(t *testing.T) {
			assertError(t, h.do(http.MethodGet, "/api/"+name, token, ""),
				http.StatusForbidden, fmt.Sprintf("Collection name %s not allowed", name))
		})
	}
	if h.store.callCount() != 0 {
		t.Error("store reached for a rejected collection")
	}

	if rec := h.do(http.MethodGet, "/api/projects", token, ""); rec.Code != http.StatusOK {
		t.Errorf("allow-listed collection status = %d", rec.Code)
	}
}

func TestCollection_List(t *testing.T) {
	h := newHarness(t)
	h.store.found = []bson.M{{"id": "p1", "status": "open"}}

	rec := h.do(http.MethodGet, "/api/projects?status=open&budget=5&fields=name,status&limit=20&skip=40", staffToken(t, "a@x.com"), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}

	docs := decodeJSON[[]map[string]any](t, rec)
	if len(docs) != 1 || docs[0]["id"] != "p1" {
		t.Errorf("docs = %v", docs)
	}

	if h.store.lastMerchant != "m1" || h.store.lastCollection != "projects" {
		t.Errorf("scoped to %s/%s, want m1/projects", h.store.lastMerchant, h.store.lastCollection)
	}
	if h.store.lastFilter["status"] != "open" || h.store.lastFilter["budget"] != int64(5) {
		t.Errorf("filter = %v", h.store.lastFilter)
	}
	for _, reserved := range []string{"fields", "limit", "skip"} {
		if _, ok := h.store.lastFilter[reserved]; ok {
			t.Errorf("reserved param %q leaked into filter", reserved)
		}
	}
	opts := h.store.lastOptions
	if opts.Limit != 20 || opts.Skip != 40 {
		t.Errorf("paging = %d/%d, want 20/40", opts.Limit, opts.Skip)
	}
	if opts.Projection["name"] != 1 || opts.Projection["status"] != 1 {
		t.Errorf("projection = %v", opts.Projection)
	}
}

func TestCollection_ListDefaultsAndEmpty(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/api/clients", staffToken(t, "a@x.com"), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "[]" {
		t.Errorf("empty result body = %s, want []", rec.Body.String())
	}
	if h.store.lastOptions.Limit != store.DefaultLimit {
		t.Errorf("limit = %d, want %d", h.store.lastOptions.Limit, store.DefaultLimit)
	}
}

func TestCollection_ListValidation(t *testing.T) {
	tests := []struct {
		query   string
		message string
	}{
		{"limit=abc", "Limit and skip must be integers"},
		{"limit=20000", "Limit must be less than or equal to 10000"},
		{"skip=-1", "Skip must be greater than or equal to 0"},
		{"fields=name,%24where", "Fields must be a comma separated list of field names"},
	}

	h := newHarness(t)
	token := staffToken(t, "a@x.com")
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assertError(t, h.do(http.MethodGet, "/api/projects?"+tt.query, token, ""), http.StatusBadRequest, tt.message)
		})
	}
}

func TestCollection_Insert(t *testing.T) {
	h := newHarness(t)
	h.store.insertedID = "65f0c0ffee0000000000abcd"

	body := `{"name":"Wedding","startDateTime":"2026-06-01T10:00:00Z","endDateTime":"2026-06-01T18:00:00Z"}`
	rec := h.do(http.MethodPost, "/api/events", staffToken(t, "a@x.com"), body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if got := decodeJSON[InsertResponse](t, rec); got.InsertedID != "65f0c0ffee0000000000abcd" {
		t.Errorf("insertedId = %q", got.InsertedID)
	}

	doc := h.store.lastDoc
	if doc["id"] != "fixed-uuid" || doc["name"] != "Wedding" {
		t.Errorf("doc = %v", doc)
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if doc["createdAt"] != now || doc["updatedAt"] != now {
		t.Errorf("timestamps = %v / %v", doc["createdAt"], doc["updatedAt"])
	}
	if start, ok := doc["startDateTime"].(time.Time); !ok || !start.Equal(time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("startDateTime = %#v, want parsed time", doc["startDateTime"])
	}
}

func TestCollection_InsertRejections(t *testing.T) {
	h := newHarness(t)
	token := staffToken(t, "a@x.com")

	assertError(t, h.do(http.MethodPost, "/api/events", token, `{"name":`), http.StatusBadRequest, msgInvalidBody)
	assertError(t, h.do(http.MethodPost, "/api/events", token, `[1,2]`), http.StatusBadRequest, msgInvalidBody)
	assertError(t, h.do(http.MethodPost, "/api/events", token, ""), http.StatusBadRequest, msgInvalidBody)
	assertError(t, h.do(http.MethodPost, "/api/events", token, `{"startDateTime":"soon","endDateTime":"later"}`),
		http.StatusBadRequest, msgInvalidSchedule)

	if h.store.callCount() != 0 {
		t.Error("store reached for an invalid insert")
	}
}

func TestCollection_Update(t *testing.T) {
	h := newHarness(t)
	h.store.modified = 3
	token := staffToken(t, "a@x.com")

	assertError(t, h.do(http.MethodPut, "/api/projects", token, `{"status":"done"}`), http.StatusBadRequest, msgFilterRequired)

	rec := h.do(http.MethodPut, "/api/projects?clientId=c9", token, `{"status":"done","updatedAt":"client-value"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if got := decodeJSON[UpdateResponse](t, rec); got.ModifiedCount != 3 {
		t.Errorf("modifiedCount = %d", got.ModifiedCount)
	}
	if h.store.lastFilter["clientId"] != "c9" {
		t.Errorf("filter = %v", h.store.lastFilter)
	}
	if h.store.lastSet["status"] != "done" {
		t.Errorf("set = %v", h.store.lastSet)
	}
	if _, ok := h.store.lastSet["updatedAt"].(time.Time); !ok {
		t.Errorf("updatedAt = %#v, want server time", h.store.lastSet["updatedAt"])
	}
}

func TestCollection_Delete(t *testing.T) {
	h := newHarness(t)
	h.store.deleted = 2
	token := staffToken(t, "a@x.com")

	assertError(t, h.do(http.MethodDelete, "/api/projects", token, ""), http.StatusBadRequest, msgFilterRequired)

	rec := h.do(http.MethodDelete, "/api/projects?status=archived", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeJSON[DeleteResponse](t, rec); got.DeletedCount != 2 {
		t.Errorf("deletedCount = %d", got.DeletedCount)
	}
}

func TestCollection_OperatorKeysNeverReachTheStore(t *testing.T) {
	h := newHarness(t)
	token := staffToken(t, "a@x.com")

	rec := h.do(http.MethodGet, "/api/projects?%24where=sleep(5000)&status=open", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if _, ok := h.store.lastFilter["$where"]; ok {
		t.Errorf("filter = %v, want no $where", h.store.lastFilter)
	}

	// An operator-only filter is empty, so writes are refused rather than widened.
	calls := h.store.callCount()
	assertError(t, h.do(http.MethodDelete, "/api/projects?%24where=1", token, ""), http.StatusBadRequest, msgFilterRequired)
	assertError(t, h.do(http.MethodPut, "/api/projects?%24expr=1", token, `{"status":"x"}`), http.StatusBadRequest, msgFilterRequired)
	if h.store.callCount() != calls {
		t.Error("store reached for an operator-only filter")
	}
}

func TestCollection_MethodNotAllowed(t *testing.T) {
	h := newHarness(t)
	assertError(t, h.do(http.MethodPatch, "/api/projects", staffToken(t, "a@x.com"), `{}`),
		http.StatusMethodNotAllowed, msgMethodNotAllowed)
}

func TestCollection_StoreFailures(t *testing.T) {
	tests := []struct {
		name    string
		ready   bool
		err     error
		status  int
		message string
	}{
		{"not connected", false, nil, http.StatusServiceUnavailable, tenant.MsgStoreNotConnected},
		{"breaker open", true, fmt.Errorf("%w: circuit breaker is open", tenant.ErrStoreUnavailable), http.StatusServiceUnavailable, tenant.MsgStoreNotConnected},
		{"unexpected", true, errBoom, http.StatusInternalServerError, msgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			token := staffToken(t, "a@x.com")
			h.store.setReady(tt.ready)
			h.store.setErr(tt.err)

			rec := h.do(http.MethodGet, "/api/projects", token, "")
			assertError(t, rec, tt.status, tt.message)
			if tt.err != nil && strings.Contains(rec.Body.String(), tt.err.Error()) {
				t.Error("internal error text leaked to the client")
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	h := newHarness(t)
	h.store.found = []bson.M{{"_id": "open", "count": 4}}
	token := staffToken(t, "a@x.com")

	rec := h.do(http.MethodPost, "/api/aggregate/projects", token,
		`{"pipeline":[{"$match":{"status":"open"}},{"$group":{"_id":"$status","count":{"$sum":1}}}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if len(h.store.lastPipeline) != 2 || h.store.lastMerchant != "m1" {
		t.Errorf("pipeline = %v, merchant = %s", h.store.lastPipeline, h.store.lastMerchant)
	}
}

func TestAggregate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		body    string
		status  int
		message string
	}{
		{"out stage", "/api/aggregate/projects", `{"pipeline":[{"$out":"stolen"}]}`, http.StatusBadRequest, msgForbiddenAggregate},
		{"merge stage", "/api/aggregate/projects", `{"pipeline":[{"$match":{}},{"$merge":{"into":"x"}}]}`, http.StatusBadRequest, msgForbiddenAggregate},
		{"nested where", "/api/aggregate/projects", `{"pipeline":[{"$match":{"$where":"sleep(1)"}}]}`, http.StatusBadRequest, msgForbiddenAggregate},
		{"not array", "/api/aggregate/projects", `{"pipeline":{"$match":{}}}`, http.StatusBadRequest, msgPipelineNotArray},
		{"root collection", "/api/aggregate/merchants", `{"pipeline":[]}`, http.StatusForbidden, "Collection name merchants not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			assertError(t, h.do(http.MethodPost, tt.path, staffToken(t, "a@x.com"), tt.body), tt.status, tt.message)
			if h.store.callCount() != 0 {
				t.Error("store reached for a rejected pipeline")
			}
		})
	}
}
