// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/photon/config.yaml",
	"/etc/photon/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3001,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			StaffTokenMode:    StaffTokenDecode,
			TenantCacheTTL:    55 * time.Minute,
			PublicTokenTTL:    0, // kept until evicted
			Collections:       nil,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Cache: CacheConfig{
			Backend: CacheRedis,
			Timeout: 2 * time.Second,
			Redis: RedisConfig{
				Host: "127.0.0.1",
				Port: 10012,
				DB:   0,
			},
			Badger: BadgerConfig{
				Path: "/data/tenant-cache",
			},
		},
		Store: StoreConfig{
			URI:            "mongodb://127.0.0.1:27017",
			Database:       "crud",
			Timeout:        5 * time.Second,
			ConnectTimeout: 10 * time.Second,
			RetryInterval:  5 * time.Second,
		},
		Preview: PreviewConfig{
			Enabled:       true,
			URLTemplate:   "https://drive.google.com/thumbnail?id=%s&sz=s%d",
			ThumbnailSize: 220,
			PreviewSize:   640,
			Timeout:       10 * time.Second,
			MaxBytes:      10 << 20, // 10MB
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration from defaults, an optional YAML file and
// the environment, in increasing priority, then validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.collections",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server
	"port":               "server.port",
	"http_port":          "server.port",
	"http_host":          "server.host",
	"http_read_timeout":  "server.read_timeout",
	"http_write_timeout": "server.write_timeout",
	"shutdown_timeout":   "server.shutdown_timeout",
	"environment":        "server.environment",

	// Security
	"jwt_secret":          "security.jwt_secret",
	"staff_token_mode":    "security.staff_token_mode",
	"staff_jwt_secret":    "security.staff_jwt_secret",
	"tenant_cache_ttl":    "security.tenant_cache_ttl",
	"public_token_ttl":    "security.public_token_ttl",
	"mongo_collections":   "security.collections",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Cache
	"cache_backend":     "cache.backend",
	"cache_timeout":     "cache.timeout",
	"redis_url":         "cache.redis.url",
	"redis_db_host":     "cache.redis.host",
	"redis_db_port":     "cache.redis.port",
	"redis_db_username": "cache.redis.username",
	"redis_db_password": "cache.redis.password",
	"redis_db_index":    "cache.redis.db",
	"badger_path":       "cache.badger.path",
	"badger_in_memory":  "cache.badger.in_memory",

	// Store
	"mongo_uri":             "store.uri",
	"mongo_username":        "store.username",
	"mongo_password":        "store.password",
	"mongo_db_name":         "store.database",
	"mongo_timeout":         "store.timeout",
	"mongo_connect_timeout": "store.connect_timeout",
	"mongo_retry_interval":  "store.retry_interval",

	// Links
	"photon_tracking_app_base_url": "links.tracking_base_url",
	"photon_select_app_base_url":   "links.selection_base_url",

	// Preview
	"preview_enabled":         "preview.enabled",
	"preview_url_template":    "preview.url_template",
	"preview_thumbnail_size":  "preview.thumbnail_size",
	"preview_size":            "preview.preview_size",
	"preview_timeout":         "preview.timeout",
	"gcp_service_account_b64": "preview.service_account_b64",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
