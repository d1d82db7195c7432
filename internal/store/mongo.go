// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/photon/internal/config"
	"github.com/tomtom215/photon/internal/logging"
	"github.com/tomtom215/photon/internal/metrics"
	"github.com/tomtom215/photon/internal/tenant"
)

// maxDatabaseNameLen is MongoDB's database name limit.
const maxDatabaseNameLen = 63

// MongoStore implements Store on MongoDB.
type MongoStore struct {
	cfg config.StoreConfig

	mu     sync.RWMutex
	client *mongo.Client
	root   *mongo.Database
}

// NewMongoStore creates a disconnected store. Call Connect before use.
func NewMongoStore(cfg config.StoreConfig) *MongoStore {
	return &MongoStore{cfg: cfg}
}

// Connect dials the server and verifies it with a ping.
func (s *MongoStore) Connect(ctx context.Context) error {
	opts := options.Client().
		ApplyURI(s.cfg.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	if s.cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(s.cfg.ConnectTimeout)
		opts.SetServerSelectionTimeout(s.cfg.ConnectTimeout)
	}
	if s.cfg.Username != "" {
		opts.SetAuth(options.Credential{
			Username: s.cfg.Username,
			Password: s.cfg.Password,
		})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("ping mongodb: %w", err)
	}

	s.mu.Lock()
	s.client = client
	s.root = client.Database(s.cfg.Database)
	s.mu.Unlock()

	metrics.SetStoreConnected(true)
	logging.Info().Str("database", s.cfg.Database).Msg("Connected to MongoDB")
	return nil
}

// Disconnect closes the client. The store reports not ready afterwards.
func (s *MongoStore) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	client := s.client
	s.client = nil
	s.root = nil
	s.mu.Unlock()

	metrics.SetStoreConnected(false)
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// Ready implements Store.
func (s *MongoStore) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client != nil
}

// Ping checks the connection.
func (s *MongoStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()
	if client == nil {
		return tenant.ErrStoreUnavailable
	}
	return client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) rootDB() (*mongo.Database, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.root == nil {
		return nil, tenant.ErrStoreUnavailable
	}
	return s.root, nil
}

func (s *MongoStore) merchantDB(merchantID string) (*mongo.Database, error) {
	if err := validateDatabaseName(merchantID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		return nil, tenant.ErrStoreUnavailable
	}
	return s.client.Database(merchantID), nil
}

func validateDatabaseName(name string) error {
	if name == "" || len(name) > maxDatabaseNameLen || strings.ContainsAny(name, "/\\. \"$*<>:|?\x00") {
		return fmt.Errorf("invalid merchant database name %q", name)
	}
	return nil
}

// withTimeout bounds a single store operation.
func (s *MongoStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Timeout)
}

// FindMerchantUser implements tenant.StorePort.
func (s *MongoStore) FindMerchantUser(ctx context.Context, email string) (*tenant.MerchantUser, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("find_merchant_user", time.Since(start)) }()

	db, err := s.rootDB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var raw bson.M
	err = db.Collection(MerchantUsersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		metrics.RecordStoreLookup(MerchantUsersCollection, "not_found")
		return nil, tenant.ErrNotFound
	}
	if err != nil {
		metrics.RecordStoreLookup(MerchantUsersCollection, "error")
		return nil, fmt.Errorf("find merchant user: %w", err)
	}
	metrics.RecordStoreLookup(MerchantUsersCollection, "found")
	return merchantUserFromDocument(raw), nil
}

// FindMerchant implements tenant.StorePort. Details holds the full raw document.
func (s *MongoStore) FindMerchant(ctx context.Context, merchantID string) (*tenant.Merchant, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("find_merchant", time.Since(start)) }()

	db, err := s.rootDB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var raw bson.M
	err = db.Collection(MerchantsCollection).FindOne(ctx, bson.M{"id": merchantID}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		metrics.RecordStoreLookup(MerchantsCollection, "not_found")
		return nil, tenant.ErrNotFound
	}
	if err != nil {
		metrics.RecordStoreLookup(MerchantsCollection, "error")
		return nil, fmt.Errorf("find merchant: %w", err)
	}
	metrics.RecordStoreLookup(MerchantsCollection, "found")
	return merchantFromDocument(raw), nil
}

func merchantUserFromDocument(raw bson.M) *tenant.MerchantUser {
	u := &tenant.MerchantUser{IsActive: truthy(raw["isActive"])}
	u.Email, _ = raw["email"].(string)
	switch id := raw["merchantId"].(type) {
	case string:
		u.MerchantID = id
	case primitive.ObjectID:
		u.MerchantID = id.Hex()
	}
	return u
}

func merchantFromDocument(raw bson.M) *tenant.Merchant {
	m := &tenant.Merchant{Details: map[string]any(raw)}
	m.ID, _ = raw["id"].(string)
	m.IsActive = truthy(raw["isActive"])
	m.Logo, _ = raw["logo"].(string)
	m.LogoDark, _ = raw["logoDark"].(string)
	return m
}

// truthy coerces an isActive flag written by other services. Non-zero numbers
// count as true and strings go through strconv.ParseBool. Anything else,
// including an absent field or an unparseable string, is false.
func truthy(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int32:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0 && !math.IsNaN(x)
	case primitive.Decimal128:
		n, _, err := x.BigInt()
		return err == nil && n.Sign() != 0
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return err == nil && b
	default:
		return false
	}
}

// Insert implements Documents.
func (s *MongoStore) Insert(ctx context.Context, merchantID, collection string, doc bson.M) (string, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("insert", time.Since(start)) }()

	db, err := s.merchantDB(merchantID)
	if err != nil {
		return "", err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return insertedIDString(res.InsertedID), nil
}

func insertedIDString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Find implements Documents. Results are sorted by createdAt, newest first.
func (s *MongoStore) Find(ctx context.Context, merchantID, collection string, filter bson.M, fo FindOptions) ([]bson.M, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("find", time.Since(start)) }()

	db, err := s.merchantDB(merchantID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(fo.Limit).
		SetSkip(fo.Skip)
	if len(fo.Projection) > 0 {
		opts.SetProjection(fo.Projection)
	}

	cur, err := db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	docs := []bson.M{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read %s cursor: %w", collection, err)
	}
	return docs, nil
}

// UpdateMany implements Documents.
func (s *MongoStore) UpdateMany(ctx context.Context, merchantID, collection string, filter, set bson.M) (int64, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("update", time.Since(start)) }()

	db, err := s.merchantDB(merchantID)
	if err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := db.Collection(collection).UpdateMany(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", collection, err)
	}
	return res.ModifiedCount, nil
}

// DeleteMany implements Documents.
func (s *MongoStore) DeleteMany(ctx context.Context, merchantID, collection string, filter bson.M) (int64, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("delete", time.Since(start)) }()

	db, err := s.merchantDB(merchantID)
	if err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := db.Collection(collection).DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", collection, err)
	}
	return res.DeletedCount, nil
}

// Aggregate implements Documents.
func (s *MongoStore) Aggregate(ctx context.Context, merchantID, collection string, pipeline Pipeline) ([]bson.M, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("aggregate", time.Since(start)) }()

	db, err := s.merchantDB(merchantID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cur, err := db.Collection(collection).Aggregate(ctx, []bson.M(pipeline))
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", collection, err)
	}
	docs := []bson.M{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read %s cursor: %w", collection, err)
	}
	return docs, nil
}

// MarkTracked implements Projects.
func (s *MongoStore) MarkTracked(ctx context.Context, merchantID, projectID string, at time.Time) error {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("mark_tracked", time.Since(start)) }()

	db, err := s.merchantDB(merchantID)
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err = db.Collection(ProjectsCollection).UpdateOne(ctx,
		bson.M{"id": projectID},
		bson.M{
			"$set": bson.M{"lastTrackedAt": at},
			"$inc": bson.M{"trackCount": 1},
		})
	if err != nil {
		return fmt.Errorf("mark project %s tracked: %w", projectID, err)
	}
	return nil
}
