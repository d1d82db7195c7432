// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tomtom215/photon/internal/auth"
	"github.com/tomtom215/photon/internal/cache"
	"github.com/tomtom215/photon/internal/config"
	"github.com/tomtom215/photon/internal/preview"
	"github.com/tomtom215/photon/internal/store"
	"github.com/tomtom215/photon/internal/tenant"
)

const testPublicSecret = "public-test-secret"

var errBoom = errors.New("boom")

// fakeStore is an in-memory store.Store that records the last call.
type fakeStore struct {
	mu        sync.Mutex
	ready     bool
	users     map[string]*tenant.MerchantUser
	merchants map[string]*tenant.Merchant
	err       error // document operations only

	merchantErr error

	found      []bson.M
	insertedID string
	modified   int64
	deleted    int64

	lastMerchant   string
	lastCollection string
	lastFilter     bson.M
	lastOptions    store.FindOptions
	lastDoc        bson.M
	lastSet        bson.M
	lastPipeline   store.Pipeline
	calls          int

	trackErr  error
	tracked   []string // merchant/project of each MarkTracked call
	trackedAt time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		ready:     true,
		users:     make(map[string]*tenant.MerchantUser),
		merchants: make(map[string]*tenant.Merchant),
	}
}

func (s *fakeStore) setReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

func (s *fakeStore) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *fakeStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *fakeStore) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *fakeStore) FindMerchantUser(_ context.Context, email string) (*tenant.MerchantUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, tenant.ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) FindMerchant(_ context.Context, merchantID string) (*tenant.Merchant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.merchantErr != nil {
		return nil, s.merchantErr
	}
	m, ok := s.merchants[merchantID]
	if !ok {
		return nil, tenant.ErrNotFound
	}
	return m, nil
}

func (s *fakeStore) record(merchantID, collection string) error {
	s.calls++
	s.lastMerchant = merchantID
	s.lastCollection = collection
	return s.err
}

func (s *fakeStore) Insert(_ context.Context, merchantID, collection string, doc bson.M) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDoc = doc
	if err := s.record(merchantID, collection); err != nil {
		return "", err
	}
	return s.insertedID, nil
}

func (s *fakeStore) Find(_ context.Context, merchantID, collection string, filter bson.M, opts store.FindOptions) ([]bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = filter
	s.lastOptions = opts
	if err := s.record(merchantID, collection); err != nil {
		return nil, err
	}
	return s.found, nil
}

func (s *fakeStore) UpdateMany(_ context.Context, merchantID, collection string, filter, set bson.M) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = filter
	s.lastSet = set
	if err := s.record(merchantID, collection); err != nil {
		return 0, err
	}
	return s.modified, nil
}

func (s *fakeStore) DeleteMany(_ context.Context, merchantID, collection string, filter bson.M) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = filter
	if err := s.record(merchantID, collection); err != nil {
		return 0, err
	}
	return s.deleted, nil
}

func (s *fakeStore) Aggregate(_ context.Context, merchantID, collection string, pipeline store.Pipeline) ([]bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPipeline = pipeline
	if err := s.record(merchantID, collection); err != nil {
		return nil, err
	}
	return s.found, nil
}

func (s *fakeStore) MarkTracked(_ context.Context, merchantID, projectID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracked = append(s.tracked, merchantID+"/"+projectID)
	s.trackedAt = at
	return s.trackErr
}

func (s *fakeStore) trackedProjects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.tracked...)
}

// fakePreviews is a preview.Source returning a fixed image or error.
type fakePreviews struct {
	mu      sync.Mutex
	img     *preview.Image
	err     error
	fetches int
	variant preview.Variant
}

func (p *fakePreviews) Fetch(_ context.Context, _ string, variant preview.Variant) (*preview.Image, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetches++
	p.variant = variant
	if p.err != nil {
		return nil, p.err
	}
	return p.img, nil
}

func (p *fakePreviews) fetchCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches
}

// fakePinger reports a fixed ping result.
type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

// harness is a fully wired router over in-memory dependencies. Staff tokens
// are decoded without verification, as in production defaults.
type harness struct {
	t        *testing.T
	store    *fakeStore
	previews *fakePreviews
	cache    *cache.MemoryCache
	codec    *auth.PublicTokenCodec
	handler  *Handler
	server   http.Handler
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	security config.SecurityConfig
	pinger   Pinger
}

func withRateLimit(reqs int) harnessOption {
	return func(c *harnessConfig) {
		c.security.RateLimitDisabled = false
		c.security.RateLimitReqs = reqs
		c.security.RateLimitWindow = time.Minute
	}
}

func withPinger(p Pinger) harnessOption {
	return func(c *harnessConfig) { c.pinger = p }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	hc := harnessConfig{
		security: config.SecurityConfig{
			JWTSecret:         testPublicSecret,
			StaffTokenMode:    config.StaffTokenDecode,
			CORSOrigins:       []string{"*"},
			RateLimitDisabled: true,
		},
	}
	for _, o := range opts {
		o(&hc)
	}

	st := newFakeStore()
	st.users["a@x.com"] = &tenant.MerchantUser{Email: "a@x.com", MerchantID: "m1", IsActive: true}
	st.users["d@x.com"] = &tenant.MerchantUser{Email: "d@x.com", MerchantID: "m2", IsActive: true}
	st.merchants["m1"] = &tenant.Merchant{
		ID: "m1", IsActive: true, Logo: "https://cdn/logo.png", LogoDark: "https://cdn/logo-dark.png",
		Details: map[string]any{"id": "m1", "name": "Studio One", "isActive": true},
	}
	st.merchants["m2"] = &tenant.Merchant{ID: "m2", IsActive: false}

	mem := cache.NewMemoryCacheWithInterval(0)
	t.Cleanup(func() { _ = mem.Close() })

	decoder, err := auth.NewStaffDecoder(&hc.security)
	if err != nil {
		t.Fatalf("NewStaffDecoder: %v", err)
	}
	codec, err := auth.NewPublicTokenCodec(&hc.security)
	if err != nil {
		t.Fatalf("NewPublicTokenCodec: %v", err)
	}

	resolver := tenant.NewResolver(mem, st, tenant.ResolverOptions{TTL: 55 * time.Minute})
	issuer := tenant.NewIssuer(mem, codec, tenant.IssuerOptions{})
	previews := &fakePreviews{img: &preview.Image{Data: []byte("jpeg-bytes"), ContentType: "image/jpeg"}}

	h := NewHandler(st, issuer, previews, hc.pinger, config.LinksConfig{
		TrackingBaseURL:  "https://track.example.com/view",
		SelectionBaseURL: "https://select.example.com/pick",
	})
	h.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	h.newID = func() string { return "fixed-uuid" }

	router := NewRouter(h, NewChiMiddlewareFromConfig(&hc.security), RouterOptions{
		Private:    tenant.NewPrivatePipeline(decoder, resolver),
		Public:     tenant.NewPublicPipeline(codec),
		Gatekeeper: tenant.NewCollectionGatekeeper(nil),
	})

	return &harness{
		t:        t,
		store:    st,
		previews: previews,
		cache:    mem,
		codec:    codec,
		handler:  h,
		server:   router.SetupChi(),
	}
}

// staffToken returns a bearer header for a staff JWT carrying email.
func staffToken(t *testing.T, email string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.StaffClaims{Email: email}).
		SignedString([]byte("identity-provider-key"))
	if err != nil {
		t.Fatalf("sign staff token: %v", err)
	}
	return "Bearer " + signed
}

// publicToken returns a bearer header for a public token of the pair.
func (h *harness) publicToken(merchantID, projectID string) string {
	h.t.Helper()
	token, err := h.codec.SignPublic(tenant.PublicClaims{MerchantID: merchantID, ProjectID: projectID})
	if err != nil {
		h.t.Fatalf("SignPublic: %v", err)
	}
	return "Bearer " + token
}

func (h *harness) do(method, target, authorization, body string) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.server.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	got := decodeJSON[ErrorResponse](t, rec)
	if !got.Error {
		t.Errorf("error flag = false, want true")
	}
	if got.Message != message {
		t.Errorf("message = %q, want %q", got.Message, message)
	}
}
