// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package tenant

import (
	"fmt"
	"sort"

	"github.com/tomtom215/photon/internal/metrics"
)

// DefaultCollections are the tenant collections reachable through the generic data routes.
// Root registry collections (merchants, merchantUsers) are deliberately absent.
var DefaultCollections = []string{
	"projects",
	"events",
	"deliverables",
	"employees",
	"clients",
	"updates",
	"projectDeliverables",
	"imageSelections",
	"selectedImages",
	"quotationTemplates",
	"contractTemplates",
}

// rootCollections can never be allow-listed.
var rootCollections = map[string]struct{}{
	"merchants":     {},
	"merchantUsers": {},
}

// CollectionGatekeeper is an immutable allow-list of collection names.
type CollectionGatekeeper struct {
	allowed map[string]struct{}
}

// NewCollectionGatekeeper builds the allow-list once. Root collections are
// dropped even if listed. An empty list falls back to DefaultCollections.
func NewCollectionGatekeeper(names []string) *CollectionGatekeeper {
	if len(names) == 0 {
		names = DefaultCollections
	}
	allowed := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, root := rootCollections[n]; root || n == "" {
			continue
		}
		allowed[n] = struct{}{}
	}
	return &CollectionGatekeeper{allowed: allowed}
}

// Allowed reports membership.
func (g *CollectionGatekeeper) Allowed(name string) bool {
	_, ok := g.allowed[name]
	return ok
}

// Check returns a Forbidden error for names outside the allow-list.
func (g *CollectionGatekeeper) Check(name string) error {
	if g.Allowed(name) {
		return nil
	}
	metrics.RecordCollectionRejection()
	return &Error{
		Kind:    KindForbidden,
		Stage:   "collection_gatekeeper",
		Message: fmt.Sprintf("Collection name %s not allowed", name),
	}
}

// Names returns the allow-list in sorted order.
func (g *CollectionGatekeeper) Names() []string {
	out := make([]string, 0, len(g.allowed))
	for n := range g.allowed {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
