// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package config

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and well formed.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSecurity,
		c.validateCache,
		c.validateStore,
		c.validateLinks,
		c.validatePreview,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

const minSecretLength = 32

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() && len(c.Security.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in production", minSecretLength)
	}

	switch c.Security.StaffTokenMode {
	case StaffTokenDecode:
	case StaffTokenVerify:
		if c.Security.StaffJWTSecret == "" {
			return fmt.Errorf("STAFF_JWT_SECRET is required when STAFF_TOKEN_MODE=verify")
		}
	default:
		return fmt.Errorf("STAFF_TOKEN_MODE must be one of: decode, verify")
	}

	if c.Security.TenantCacheTTL <= 0 {
		return fmt.Errorf("TENANT_CACHE_TTL must be positive")
	}
	if c.Security.PublicTokenTTL < 0 {
		return fmt.Errorf("PUBLIC_TOKEN_TTL must not be negative")
	}

	for _, name := range c.Security.Collections {
		if name == "merchants" || name == "merchantUsers" {
			return fmt.Errorf("MONGO_COLLECTIONS must not include root collection %q", name)
		}
	}

	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production; " +
			"set specific origins, e.g. CORS_ORIGINS=https://app.example.com")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports a wildcard CORS configuration worth logging at startup.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case CacheRedis:
		if c.Cache.Redis.URL != "" {
			return validateURLScheme(c.Cache.Redis.URL, "REDIS_URL", "redis", "rediss")
		}
		if c.Cache.Redis.Host == "" {
			return fmt.Errorf("REDIS_DB_HOST is required when CACHE_BACKEND=redis")
		}
	case CacheBadger:
		if c.Cache.Badger.Path == "" && !c.Cache.Badger.InMemory {
			return fmt.Errorf("BADGER_PATH is required when CACHE_BACKEND=badger")
		}
	case CacheMemory:
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: redis, badger, memory")
	}
	if c.Cache.Timeout <= 0 {
		return fmt.Errorf("CACHE_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateStore() error {
	if err := validateURLScheme(c.Store.URI, "MONGO_URI", "mongodb", "mongodb+srv"); err != nil {
		return err
	}
	if c.Store.Database == "" {
		return fmt.Errorf("MONGO_DB_NAME is required")
	}
	if c.Store.Timeout <= 0 || c.Store.ConnectTimeout <= 0 || c.Store.RetryInterval <= 0 {
		return fmt.Errorf("MONGO_TIMEOUT, MONGO_CONNECT_TIMEOUT and MONGO_RETRY_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) validateLinks() error {
	if c.Links.TrackingBaseURL != "" {
		if err := validateHTTPURL(c.Links.TrackingBaseURL, "PHOTON_TRACKING_APP_BASE_URL"); err != nil {
			return err
		}
	}
	if c.Links.SelectionBaseURL != "" {
		if err := validateHTTPURL(c.Links.SelectionBaseURL, "PHOTON_SELECT_APP_BASE_URL"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validatePreview() error {
	if !c.Preview.Enabled {
		return nil
	}
	if strings.Count(c.Preview.URLTemplate, "%") != 2 ||
		!strings.Contains(c.Preview.URLTemplate, "%s") ||
		!strings.Contains(c.Preview.URLTemplate, "%d") {
		return fmt.Errorf("PREVIEW_URL_TEMPLATE must contain exactly one %%s (file id) and one %%d (size)")
	}
	if c.Preview.ThumbnailSize <= 0 || c.Preview.PreviewSize <= 0 {
		return fmt.Errorf("PREVIEW_THUMBNAIL_SIZE and PREVIEW_SIZE must be positive")
	}
	if c.Preview.Timeout <= 0 {
		return fmt.Errorf("PREVIEW_TIMEOUT must be positive")
	}
	if c.Preview.ServiceAccountB64 != "" {
		if _, err := base64.StdEncoding.DecodeString(c.Preview.ServiceAccountB64); err != nil {
			return fmt.Errorf("GCP_SERVICE_ACCOUNT_B64 is not valid base64: %w", err)
		}
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}

// IsProduction reports ENVIRONMENT=production (or prod).
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}
