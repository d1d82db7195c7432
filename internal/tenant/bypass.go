// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package tenant

import (
	"fmt"
	"regexp"
)

// DefaultPublicBypass lists paths, relative to the public mount, that serve
// cacheable binary content keyed only by an opaque file id.
var DefaultPublicBypass = []string{
	`^/thumbnail/[^/]+$`,
	`^/preview/[^/]+$`,
}

// Bypass matches request paths that skip the public pipeline.
type Bypass struct {
	patterns []*regexp.Regexp
}

// NewBypass compiles the given patterns.
func NewBypass(patterns ...string) (*Bypass, error) {
	b := &Bypass{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile bypass pattern %q: %w", p, err)
		}
		b.patterns = append(b.patterns, re)
	}
	return b, nil
}

// MustDefaultBypass returns the bypass for DefaultPublicBypass.
func MustDefaultBypass() *Bypass {
	b, err := NewBypass(DefaultPublicBypass...)
	if err != nil {
		panic(err)
	}
	return b
}

// Matches reports whether path skips the pipeline.
func (b *Bypass) Matches(path string) bool {
	if b == nil {
		return false
	}
	for _, re := range b.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
