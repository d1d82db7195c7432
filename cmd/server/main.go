// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/photon/internal/api"
	"github.com/tomtom215/photon/internal/auth"
	"github.com/tomtom215/photon/internal/cache"
	"github.com/tomtom215/photon/internal/config"
	"github.com/tomtom215/photon/internal/logging"
	"github.com/tomtom215/photon/internal/preview"
	"github.com/tomtom215/photon/internal/store"
	"github.com/tomtom215/photon/internal/supervisor"
	"github.com/tomtom215/photon/internal/supervisor/services"
	"github.com/tomtom215/photon/internal/tenant"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("cache_backend", cfg.Cache.Backend).
		Str("staff_token_mode", cfg.Security.StaffTokenMode).
		Str("database", cfg.Store.Database).
		Msg("Starting Photon gateway with supervisor tree")

	os.Exit(run(cfg))
}

// run wires the application and blocks until shutdown. It returns the process exit code.
func run(cfg *config.Config) int {
	tenantCache, err := cache.New(cfg.Cache)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize tenant cache")
		return 1
	}
	defer func() {
		if err := tenantCache.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing tenant cache")
		}
	}()

	mongoStore := store.NewMongoStore(cfg.Store)
	st := store.NewBreakerStore(mongoStore, store.DefaultBreakerSettings())

	staffDecoder, err := auth.NewStaffDecoder(&cfg.Security)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize staff token decoder")
		return 1
	}
	codec, err := auth.NewPublicTokenCodec(&cfg.Security)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize public token codec")
		return 1
	}

	resolver := tenant.NewResolver(tenantCache, st, tenant.ResolverOptions{
		TTL:          cfg.Security.TenantCacheTTL,
		CacheTimeout: cfg.Cache.Timeout,
		StoreTimeout: cfg.Store.Timeout,
	})
	issuer := tenant.NewIssuer(tenantCache, codec, tenant.IssuerOptions{
		TTL:          cfg.Security.PublicTokenTTL,
		CacheTimeout: cfg.Cache.Timeout,
	})
	gatekeeper := tenant.NewCollectionGatekeeper(cfg.Security.Collections)
	logging.Info().Strs("collections", gatekeeper.Names()).Msg("Collection allow-list loaded")

	var previews preview.Source
	switch {
	case cfg.Preview.Enabled && cfg.Preview.ServiceAccountB64 != "":
		links, err := preview.NewDriveLinks(context.Background(), cfg.Preview.ServiceAccountB64)
		if err != nil {
			logging.Error().Err(err).Msg("Failed to initialize Drive thumbnail lookup")
			return 1
		}
		previews = preview.NewDriveSourceWithLinks(cfg.Preview, nil, links)
		logging.Info().Msg("Image preview proxy using the Drive files API")
	case cfg.Preview.Enabled:
		previews = preview.NewDriveSource(cfg.Preview, nil)
	default:
		logging.Info().Msg("Image preview proxy disabled (PREVIEW_ENABLED=false)")
	}

	handler := api.NewHandler(st, issuer, previews, tenantCache, cfg.Links)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security), api.RouterOptions{
		Private:    tenant.NewPrivatePipeline(staffDecoder, resolver),
		Public:     tenant.NewPublicPipeline(codec),
		Gatekeeper: gatekeeper,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return 1
	}

	tree.AddDataService(store.NewConnector(mongoStore, cfg.Store.RetryInterval, cfg.Store.ConnectTimeout))
	if badgerCache, ok := tenantCache.(*cache.BadgerCache); ok {
		tree.AddDataService(services.NewCacheGCService(badgerCache, cache.DefaultGCInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
		return 1
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Photon gateway stopped")
	return 0
}
