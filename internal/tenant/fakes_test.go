// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package tenant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

type cacheEntry struct {
	value string
	ttl   time.Duration
}

// fakeCache is an in-memory CachePort with call counters and error injection.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	gets    int
	sets    int
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]cacheEntry)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return "", false, c.getErr
	}
	e, ok := c.entries[key]
	return e.value, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = cacheEntry{value: value, ttl: ttl}
	return nil
}

func (c *fakeCache) entry(key string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *fakeCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// fakeStore is a StorePort backed by maps.
type fakeStore struct {
	mu           sync.Mutex
	users        map[string]*MerchantUser
	merchants    map[string]*Merchant
	userLookups  int
	merchLookups int
	userErr      error
	merchErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[string]*MerchantUser),
		merchants: make(map[string]*Merchant),
	}
}

func (s *fakeStore) FindMerchantUser(_ context.Context, email string) (*MerchantUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userLookups++
	if s.userErr != nil {
		return nil, s.userErr
	}
	u, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeStore) FindMerchant(_ context.Context, id string) (*Merchant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.merchLookups++
	if s.merchErr != nil {
		return nil, s.merchErr
	}
	m, ok := s.merchants[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *fakeStore) lookups() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userLookups + s.merchLookups
}

// fakeDecoder treats "Bearer <email>|<anything>" as a token whose email is the part before "|".
type fakeDecoder struct{}

func (fakeDecoder) DecodeStaff(authorization string) (StaffIdentity, error) {
	token, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || token == "" {
		return StaffIdentity{}, Unauthenticated(MsgMissingBearer, nil)
	}
	email, _, _ := strings.Cut(token, "|")
	return StaffIdentity{Email: email, Token: token}, nil
}

// fakeCodec signs as "<merchant>.<project>.<secret>" and only verifies its own secret.
type fakeCodec struct {
	secret string
	signs  int
	err    error
}

func (c *fakeCodec) SignPublic(claims PublicClaims) (string, error) {
	c.signs++
	if c.err != nil {
		return "", c.err
	}
	return claims.MerchantID + "." + claims.ProjectID + "." + c.secret, nil
}

func (c *fakeCodec) VerifyPublic(authorization string) (PublicClaims, error) {
	token, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || token == "" {
		return PublicClaims{}, Unauthenticated(MsgMissingBearer, nil)
	}
	return c.Verify(token)
}

func (c *fakeCodec) Verify(token string) (PublicClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return PublicClaims{}, errors.New("malformed token")
	}
	if parts[2] != c.secret {
		return PublicClaims{}, errors.New("signature is invalid")
	}
	return PublicClaims{MerchantID: parts[0], ProjectID: parts[1]}, nil
}
