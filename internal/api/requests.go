// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/photon/internal/store"
	"github.com/tomtom215/photon/internal/validation"
)

// MaxBodyBytes caps request bodies on write routes.
const MaxBodyBytes = 5 << 20

// ListRequest holds the validated paging and projection of a collection read.
type ListRequest struct {
	Collection string `validate:"required,collection"`
	Fields     string `validate:"omitempty,fieldlist"`
	Limit      int64  `validate:"gte=0,lte=10000"`
	Skip       int64  `validate:"gte=0"`
}

// FileRequest holds the file id of a thumbnail or preview request.
type FileRequest struct {
	FileID string `validate:"required,fileid"`
}

// WindowRequest is a half-open time window [StartDateTime, EndDateTime).
type WindowRequest struct {
	StartDateTime time.Time `validate:"required"`
	EndDateTime   time.Time `validate:"required,gtfield=StartDateTime"`
}

// newWindowRequest reads startDateTime and endDateTime from a decoded body.
func newWindowRequest(body map[string]interface{}) (WindowRequest, error) {
	start, err := store.ParseDate(body["startDateTime"])
	if err != nil {
		return WindowRequest{}, fmt.Errorf("startDateTime: %w", err)
	}
	end, err := store.ParseDate(body["endDateTime"])
	if err != nil {
		return WindowRequest{}, fmt.Errorf("endDateTime: %w", err)
	}
	return WindowRequest{StartDateTime: start, EndDateTime: end}, nil
}

// validateRequest returns the first validation message, or "" when v is valid.
func validateRequest(v interface{}) string {
	if err := validation.ValidateStruct(v); err != nil {
		return err.Error()
	}
	return ""
}

var errEmptyBody = errors.New("empty request body")

// decodeBody reads a JSON object into a map. Numbers decode as float64.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]interface{}, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyBody
		}
		return nil, fmt.Errorf("decode request body: %w", err)
	}
	if body == nil {
		return nil, errEmptyBody
	}
	return body, nil
}
