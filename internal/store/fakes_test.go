// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tomtom215/photon/internal/tenant"
)

var errBoom = errors.New("boom")

// fakeStore is an in-memory Store whose lookups can be made to fail.
type fakeStore struct {
	mu    sync.Mutex
	err   error
	calls int
	user  *tenant.MerchantUser
}

func (f *fakeStore) result() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeStore) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeStore) Ready() bool { return true }

func (f *fakeStore) FindMerchantUser(_ context.Context, _ string) (*tenant.MerchantUser, error) {
	if err := f.result(); err != nil {
		return nil, err
	}
	return f.user, nil
}

func (f *fakeStore) FindMerchant(_ context.Context, id string) (*tenant.Merchant, error) {
	if err := f.result(); err != nil {
		return nil, err
	}
	return &tenant.Merchant{ID: id, IsActive: true}, nil
}

func (f *fakeStore) Insert(_ context.Context, _, _ string, _ bson.M) (string, error) {
	if err := f.result(); err != nil {
		return "", err
	}
	return "inserted", nil
}

func (f *fakeStore) Find(_ context.Context, _, _ string, _ bson.M, _ FindOptions) ([]bson.M, error) {
	if err := f.result(); err != nil {
		return nil, err
	}
	return []bson.M{{"id": "1"}}, nil
}

func (f *fakeStore) UpdateMany(_ context.Context, _, _ string, _, _ bson.M) (int64, error) {
	if err := f.result(); err != nil {
		return 0, err
	}
	return 2, nil
}

func (f *fakeStore) DeleteMany(_ context.Context, _, _ string, _ bson.M) (int64, error) {
	if err := f.result(); err != nil {
		return 0, err
	}
	return 3, nil
}

func (f *fakeStore) Aggregate(_ context.Context, _, _ string, _ Pipeline) ([]bson.M, error) {
	if err := f.result(); err != nil {
		return nil, err
	}
	return []bson.M{{"n": 1}}, nil
}

func (f *fakeStore) MarkTracked(_ context.Context, _, _ string, _ time.Time) error {
	return f.result()
}

// fakeConnectable fails Connect a fixed number of times.
type fakeConnectable struct {
	mu           sync.Mutex
	failures     int
	connects     int
	disconnected bool
}

func (f *fakeConnectable) Connect(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	if f.connects <= f.failures {
		return errBoom
	}
	return nil
}

func (f *fakeConnectable) Disconnect(_ context.Context) error {
	f.mu.Lock()
	f.disconnected = true
	f.mu.Unlock()
	return nil
}

func (f *fakeConnectable) state() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connects, f.disconnected
}
