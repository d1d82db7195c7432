// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

// Package validation provides request struct validation using go-playground/validator v10.
//
// A single validator instance is shared by all handlers (it caches struct
// metadata) and carries three custom tags:
//
//   - collection: a MongoDB collection name usable by tenants
//   - fileid: an image file id accepted by the preview proxy
//   - fieldlist: a comma separated projection list such as "name,email,address.city"
//
// Example:
//
//	type ListRequest struct {
//	    Collection string `validate:"required,collection"`
//	    Fields     string `validate:"omitempty,fieldlist"`
//	    Limit      int64  `validate:"gte=0,lte=10000"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    writeError(w, http.StatusBadRequest, err.Error())
//	    return
//	}
package validation
