// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package tenant

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
)

func newPrivate(cache *fakeCache, store *fakeStore) *Pipeline {
	return NewPrivatePipeline(fakeDecoder{}, NewResolver(cache, store, ResolverOptions{}))
}

func TestPrivatePipelineAdmits(t *testing.T) {
	cache := newFakeCache()
	p := newPrivate(cache, seededStore())

	rc, err := p.Run(context.Background(), RequestContext{Authorization: "Bearer a@x.com|sig"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if rc.Tenant.MerchantID != "m1" {
		t.Errorf("MerchantID = %q, want %q", rc.Tenant.MerchantID, "m1")
	}
	if rc.Staff.Email != "a@x.com" {
		t.Errorf("Email = %q, want %q", rc.Staff.Email, "a@x.com")
	}
	if cache.size() != 2 {
		t.Errorf("cache entries = %d, want 2", cache.size())
	}
}

func TestPrivatePipelineStageOrder(t *testing.T) {
	p := newPrivate(newFakeCache(), newFakeStore())
	want := []string{StageDecodeStaffToken, StageResolveMerchant, StageCheckMerchantActive}
	if got := p.Stages(); !reflect.DeepEqual(got, want) {
		t.Errorf("Stages() = %v, want %v", got, want)
	}
}

func TestPrivatePipelineRejections(t *testing.T) {
	tests := []struct {
		name       string
		auth       string
		setup      func(*fakeStore)
		wantStatus int
		wantStage  string
		wantMsg    string
	}{
		{
			name:       "missing header",
			auth:       "",
			wantStatus: http.StatusUnauthorized,
			wantStage:  StageDecodeStaffToken,
			wantMsg:    MsgMissingBearer,
		},
		{
			name:       "missing email claim",
			auth:       "Bearer |sig",
			wantStatus: http.StatusUnauthorized,
			wantStage:  StageDecodeStaffToken,
			wantMsg:    MsgMissingEmail,
		},
		{
			name:       "unknown user",
			auth:       "Bearer ghost@x.com|sig",
			wantStatus: http.StatusForbidden,
			wantStage:  StageResolveMerchant,
			wantMsg:    "user with ghost@x.com is not registered or disabled",
		},
		{
			name:       "disabled merchant",
			auth:       "Bearer a@x.com|sig",
			setup:      func(s *fakeStore) { s.merchants["m1"].IsActive = false },
			wantStatus: http.StatusForbidden,
			wantStage:  StageCheckMerchantActive,
			wantMsg:    MsgMerchantDisabled,
		},
		{
			name:       "store failure",
			auth:       "Bearer a@x.com|sig",
			setup:      func(s *fakeStore) { s.userErr = errors.New("boom") },
			wantStatus: http.StatusUnauthorized,
			wantStage:  StageResolveMerchant,
			wantMsg:    MsgInvalidStaffToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore()
			if tt.setup != nil {
				tt.setup(store)
			}
			p := newPrivate(newFakeCache(), store)

			in := RequestContext{Authorization: tt.auth}
			rc, err := p.Run(context.Background(), in)
			if err == nil {
				t.Fatal("Run() error = nil, want rejection")
			}

			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("err = %T, want *Error", err)
			}
			if got := perr.Kind.HTTPStatus(); got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
			if perr.Stage != tt.wantStage {
				t.Errorf("stage = %q, want %q", perr.Stage, tt.wantStage)
			}
			if !strings.Contains(perr.Message, tt.wantMsg) {
				t.Errorf("message = %q, want to contain %q", perr.Message, tt.wantMsg)
			}
			if rc.Tenant != (Context{}) {
				t.Errorf("tenant context attached on rejection: %+v", rc.Tenant)
			}
		})
	}
}

func TestDisabledMerchantDistinctFromMissingUser(t *testing.T) {
	ctx := context.Background()

	disabled := seededStore()
	disabled.merchants["m1"].IsActive = false
	_, errMerchant := newPrivate(newFakeCache(), disabled).Run(ctx, RequestContext{Authorization: "Bearer a@x.com|sig"})
	_, errUser := newPrivate(newFakeCache(), seededStore()).Run(ctx, RequestContext{Authorization: "Bearer nobody@x.com|sig"})

	if MessageOf(errMerchant) == MessageOf(errUser) {
		t.Errorf("messages should differ, both %q", MessageOf(errMerchant))
	}
	var a, b *Error
	errors.As(errMerchant, &a)
	errors.As(errUser, &b)
	if a.Stage == b.Stage {
		t.Errorf("stages should differ, both %q", a.Stage)
	}
}

func TestPipelineShortCircuits(t *testing.T) {
	var ran []string
	stage := func(name string, fail bool) Stage {
		return Stage{Name: name, Run: func(_ context.Context, rc RequestContext) (RequestContext, error) {
			ran = append(ran, name)
			if fail {
				return rc, Forbidden("nope", nil)
			}
			return rc, nil
		}}
	}

	p := NewPipeline("test", stage("a", false), stage("b", true), stage("c", false))
	_, err := p.Run(context.Background(), RequestContext{})

	if KindOf(err) != KindForbidden {
		t.Fatalf("KindOf(err) = %v, want forbidden", KindOf(err))
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(ran, want) {
		t.Errorf("ran = %v, want %v", ran, want)
	}
}

func TestPipelineUnclassifiedErrorFailsClosed(t *testing.T) {
	p := NewPipeline("test", Stage{Name: "explode", Run: func(_ context.Context, rc RequestContext) (RequestContext, error) {
		return rc, errors.New("unexpected")
	}})

	_, err := p.Run(context.Background(), RequestContext{})
	if KindOf(err) != KindUnauthenticated {
		t.Errorf("KindOf(err) = %v, want unauthenticated", KindOf(err))
	}
}

func TestPublicPipeline(t *testing.T) {
	codec := &fakeCodec{secret: "right"}
	p := NewPublicPipeline(codec)
	ctx := context.Background()

	t.Run("admits", func(t *testing.T) {
		token, _ := codec.SignPublic(PublicClaims{MerchantID: "m1", ProjectID: "p1"})
		rc, err := p.Run(ctx, RequestContext{Authorization: "Bearer " + token})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if rc.Tenant.MerchantID != "m1" || rc.Tenant.ProjectID != "p1" {
			t.Errorf("tenant = %+v, want m1/p1", rc.Tenant)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		rc, err := p.Run(ctx, RequestContext{Authorization: "Bearer m1.p1.wrong"})
		if KindOf(err) != KindForbidden {
			t.Fatalf("KindOf(err) = %v, want forbidden", KindOf(err))
		}
		if rc.Tenant != (Context{}) {
			t.Errorf("tenant context attached: %+v", rc.Tenant)
		}
	})

	t.Run("missing claims", func(t *testing.T) {
		_, err := p.Run(ctx, RequestContext{Authorization: "Bearer m1..right"})
		if KindOf(err) != KindForbidden {
			t.Fatalf("KindOf(err) = %v, want forbidden", KindOf(err))
		}
		if MessageOf(err) != MsgPublicClaimsMissing {
			t.Errorf("message = %q, want %q", MessageOf(err), MsgPublicClaimsMissing)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := p.Run(ctx, RequestContext{})
		if KindOf(err) != KindUnauthenticated {
			t.Fatalf("KindOf(err) = %v, want unauthenticated", KindOf(err))
		}
	})
}

func TestBypass(t *testing.T) {
	b := MustDefaultBypass()

	tests := []struct {
		path string
		want bool
	}{
		{"/thumbnail/abc123", true},
		{"/preview/abc123", true},
		{"/thumbnail/", false},
		{"/thumbnail/abc/def", false},
		{"/merchantDetails", false},
		{"/public/thumbnail/abc", false},
	}
	for _, tt := range tests {
		if got := b.Matches(tt.path); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if _, err := NewBypass("("); err == nil {
		t.Error("NewBypass with invalid pattern should fail")
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithContext(context.Background(), Context{MerchantID: "m1"})
	tc, ok := FromContext(ctx)
	if !ok || tc.MerchantID != "m1" {
		t.Errorf("FromContext = %+v, %v", tc, ok)
	}
	if _, ok := FromContext(context.Background()); ok {
		t.Error("FromContext on bare context should report false")
	}
}

func TestErrorIs(t *testing.T) {
	err := Forbidden(MsgMerchantDisabled, nil)
	if !errors.Is(err, &Error{Kind: KindForbidden}) {
		t.Error("errors.Is should match on kind")
	}
	if errors.Is(err, &Error{Kind: KindNotFound}) {
		t.Error("errors.Is should not match a different kind")
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Error("plain errors should map to internal")
	}
	if MessageOf(errors.New("plain")) != "Internal Server Error" {
		t.Error("plain errors should get the generic message")
	}
}
