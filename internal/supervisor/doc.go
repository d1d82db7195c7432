// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

/*
Package supervisor provides process supervision for the gateway using suture v4.

The tree separates the backing connections from the HTTP surface:

	RootSupervisor ("photon")
	├── DataSupervisor ("data-layer")
	│   ├── store.Connector       (MongoDB connect with retry, disconnect on stop)
	│   └── CacheGCService        (badger value log GC, badger backend only)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

The HTTP server starts immediately and answers 503 on store-backed routes
until the connector succeeds, so a slow MongoDB never blocks the health
endpoints.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(store.NewConnector(mongoStore, cfg.Store.RetryInterval, cfg.Store.ConnectTimeout))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)

Supervisor events (start, stop, restart, backoff) are logged through
sutureslog, backed by the zerolog slog adapter in internal/logging.

# Failure Handling

Each layer counts failures independently. When a layer's counter exceeds
FailureThreshold it backs off for FailureBackoff before restarting the
failed service. The counter decays over FailureDecay seconds.

# Shutdown

Canceling the context passed to Serve stops every service. Services that
do not return within ShutdownTimeout are listed by UnstoppedServiceReport.
*/
package supervisor
