// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all gateway configuration.
//
// Loading order (Koanf v2):
//  1. Defaults from defaultConfig()
//  2. Optional YAML file (CONFIG_PATH, config.yaml, /etc/photon/config.yaml)
//  3. Explicitly mapped environment variables
//
// Config is immutable after LoadWithKoanf and safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Cache    CacheConfig    `koanf:"cache"`
	Store    StoreConfig    `koanf:"store"`
	Links    LinksConfig    `koanf:"links"`
	Preview  PreviewConfig  `koanf:"preview"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Staff token modes.
const (
	StaffTokenDecode = "decode"
	StaffTokenVerify = "verify"
)

// SecurityConfig holds token, CORS and rate limit settings.
type SecurityConfig struct {
	// JWTSecret is the HMAC key for public project tokens.
	JWTSecret string `koanf:"jwt_secret"`

	// StaffTokenMode is "decode" (claims only) or "verify" (HS256 with StaffJWTSecret).
	StaffTokenMode string `koanf:"staff_token_mode"`
	StaffJWTSecret string `koanf:"staff_jwt_secret"`

	TenantCacheTTL time.Duration `koanf:"tenant_cache_ttl"`
	PublicTokenTTL time.Duration `koanf:"public_token_ttl"`

	// Collections is the allow-list for collection-scoped routes.
	Collections []string `koanf:"collections"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Cache backends.
const (
	CacheRedis  = "redis"
	CacheBadger = "badger"
	CacheMemory = "memory"
)

// CacheConfig selects and configures the tenant cache backend.
type CacheConfig struct {
	Backend string        `koanf:"backend"`
	Timeout time.Duration `koanf:"timeout"`
	Redis   RedisConfig   `koanf:"redis"`
	Badger  BadgerConfig  `koanf:"badger"`
}

// RedisConfig holds Redis connection settings. URL, when set, wins over the discrete fields.
type RedisConfig struct {
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// BadgerConfig holds embedded cache settings.
type BadgerConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// StoreConfig holds MongoDB settings.
type StoreConfig struct {
	// URI may contain credentials; Username/Password are applied when set.
	URI      string `koanf:"uri"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// Database holds the merchants and merchantUsers collections.
	// Tenant data lives in one database per merchant id.
	Database string `koanf:"database"`

	Timeout        time.Duration `koanf:"timeout"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	RetryInterval  time.Duration `koanf:"retry_interval"`
}

// LinksConfig holds the viewer app base URLs returned with public tokens.
type LinksConfig struct {
	TrackingBaseURL  string `koanf:"tracking_base_url"`
	SelectionBaseURL string `koanf:"selection_base_url"`
}

// PreviewConfig configures the image proxy.
type PreviewConfig struct {
	Enabled bool `koanf:"enabled"`

	// URLTemplate is formatted with the file id and the pixel size.
	URLTemplate   string        `koanf:"url_template"`
	ThumbnailSize int           `koanf:"thumbnail_size"`
	PreviewSize   int           `koanf:"preview_size"`
	Timeout       time.Duration `koanf:"timeout"`
	MaxBytes      int64         `koanf:"max_bytes"`

	// ServiceAccountB64 is a base64 encoded Google service account key.
	// When set, thumbnail links are looked up with the Drive files API and
	// URLTemplate is not used.
	ServiceAccountB64 string `koanf:"service_account_b64"`
}

// URLFor returns the upstream URL for fileID at size pixels.
func (p PreviewConfig) URLFor(fileID string, size int) string {
	return fmt.Sprintf(p.URLTemplate, fileID, size)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
