// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validateHTTPURL checks an http(s) base URL. Paths are allowed since viewer
// apps may live under a sub-path; query strings are not, because the token
// query parameter is appended.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}

// validateURLScheme checks that rawURL parses and uses one of schemes.
func validateURLScheme(rawURL, fieldName string, schemes ...string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	for _, s := range schemes {
		if parsedURL.Scheme == s {
			if parsedURL.Host == "" {
				return fmt.Errorf("%s host is required", fieldName)
			}
			return nil
		}
	}
	return fmt.Errorf("%s scheme must be one of %s, got: %q", fieldName, strings.Join(schemes, ", "), parsedURL.Scheme)
}
