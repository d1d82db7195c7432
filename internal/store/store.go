// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tomtom215/photon/internal/tenant"
)

// Root collection names.
const (
	MerchantsCollection     = "merchants"
	MerchantUsersCollection = "merchantUsers"
)

// Documents is generic document access scoped to one merchant database.
type Documents interface {
	// Insert stores doc and returns the generated _id as a hex string.
	Insert(ctx context.Context, merchantID, collection string, doc bson.M) (string, error)

	// Find returns the documents matching filter.
	Find(ctx context.Context, merchantID, collection string, filter bson.M, opts FindOptions) ([]bson.M, error)

	// UpdateMany applies $set to every document matching filter and returns the modified count.
	UpdateMany(ctx context.Context, merchantID, collection string, filter, set bson.M) (int64, error)

	// DeleteMany removes every document matching filter and returns the deleted count.
	DeleteMany(ctx context.Context, merchantID, collection string, filter bson.M) (int64, error)

	// Aggregate runs a validated pipeline.
	Aggregate(ctx context.Context, merchantID, collection string, pipeline Pipeline) ([]bson.M, error)
}

// Projects records viewer activity on a merchant's projects.
type Projects interface {
	// MarkTracked stamps lastTrackedAt and increments trackCount on the project.
	MarkTracked(ctx context.Context, merchantID, projectID string, at time.Time) error
}

// Store is the full system-of-record surface used by the gateway.
type Store interface {
	tenant.StorePort
	Documents
	Projects

	// Ready reports whether the store is connected.
	Ready() bool
}
