// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

/*
Package config loads gateway configuration with Koanf v2.

Sources, lowest to highest priority:

 1. Built-in defaults (defaultConfig)
 2. YAML file from CONFIG_PATH, ./config.yaml or /etc/photon/config.yaml
 3. Environment variables listed in envMappings

Only mapped environment variables are read. Names kept from earlier
deployments (REDIS_DB_HOST, MONGO_USERNAME, PHOTON_TRACKING_APP_BASE_URL and
friends) map onto the nested keys.

Example config.yaml:

	server:
	  port: 3001
	security:
	  jwt_secret: change-me-to-something-long-and-random
	  staff_token_mode: decode
	cache:
	  backend: redis
	  redis:
	    host: redis
	    port: 10012
	store:
	  uri: mongodb://mongo:27017
	  database: crud
	links:
	  tracking_base_url: https://track.example.com
	  selection_base_url: https://select.example.com

Slice values (CORS_ORIGINS, MONGO_COLLECTIONS) accept comma-separated strings
from the environment.
*/
package config
