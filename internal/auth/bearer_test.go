// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package auth

import (
	"testing"

	"github.com/tomtom215/photon/internal/tenant"
)

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"surrounding space", "  Bearer abc  ", "abc", false},
		{"empty", "", "", true},
		{"scheme only", "Bearer", "", true},
		{"scheme with blank token", "Bearer   ", "", true},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", true},
		{"lowercase scheme", "bearer abc", "", true},
		{"token only", "abc.def.ghi", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearer(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExtractBearer(%q) expected error", tt.header)
				}
				if tenant.KindOf(err) != tenant.KindUnauthenticated {
					t.Errorf("kind = %v, want Unauthenticated", tenant.KindOf(err))
				}
				if tenant.MessageOf(err) != tenant.MsgMissingBearer {
					t.Errorf("message = %q, want %q", tenant.MessageOf(err), tenant.MsgMissingBearer)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractBearer(%q) unexpected error: %v", tt.header, err)
			}
			if got != tt.want {
				t.Errorf("ExtractBearer(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
