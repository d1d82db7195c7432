// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/photon/internal/config"
	"github.com/tomtom215/photon/internal/logging"
)

// DefaultGCInterval is how often BadgerCache runs value log garbage collection.
const DefaultGCInterval = 10 * time.Minute

// BadgerCache stores tenant entries in an embedded BadgerDB.
// Expiry is delegated to Badger's per-entry TTL.
type BadgerCache struct {
	db *badger.DB
}

// NewBadgerCache opens the database described by cfg.
func NewBadgerCache(cfg config.BadgerConfig) (*BadgerCache, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for tenant cache: %w", err)
	}
	return NewBadgerCacheWithDB(db), nil
}

// NewBadgerCacheWithDB wraps an open database. Close closes db.
func NewBadgerCacheWithDB(db *badger.DB) *BadgerCache {
	return &BadgerCache{db: db}
}

// Backend implements Cache.
func (c *BadgerCache) Backend() string { return "badger" }

// Get implements tenant.CachePort.
func (c *BadgerCache) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	defer observe("badger", "get", time.Now())

	var val []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("badger get: %w", err)
	}
	return string(val), true, nil
}

// Set implements tenant.CachePort. A ttl of zero stores the key without expiry.
func (c *BadgerCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer observe("badger", "set", time.Now())

	e := badger.NewEntry([]byte(key), []byte(value))
	if ttl > 0 {
		e = e.WithTTL(ttl)
	}
	if err := c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(e)
	}); err != nil {
		return fmt.Errorf("badger set: %w", err)
	}
	return nil
}

// Ping implements Cache.
func (c *BadgerCache) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return nil
}

// Close implements Cache.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

// RunGC rewrites value log files until badger reports nothing left to collect.
// The supervisor's CacheGCService calls it periodically.
func (c *BadgerCache) RunGC() {
	for {
		err := c.db.RunValueLogGC(0.5)
		if err == nil {
			continue
		}
		if !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrRejected) &&
			!errors.Is(err, badger.ErrGCInMemoryMode) {
			logging.Warn().Err(err).Msg("Tenant cache value log GC failed")
		}
		return
	}
}
