// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/photon/internal/middleware"
	"github.com/tomtom215/photon/internal/tenant"
)

// Mount points of the two authorization domains.
const (
	PrivatePrefix = "/api"
	PublicPrefix  = "/public"
)

// Router wires the handlers, the authorization pipelines and the Chi
// middleware stack.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	private       *tenant.Pipeline
	public        *tenant.Pipeline
	bypass        *tenant.Bypass
	gatekeeper    *tenant.CollectionGatekeeper
}

// RouterOptions holds the authorization components of a Router.
type RouterOptions struct {
	Private    *tenant.Pipeline
	Public     *tenant.Pipeline
	Bypass     *tenant.Bypass
	Gatekeeper *tenant.CollectionGatekeeper
}

// NewRouter creates a Router. A nil Bypass uses tenant.MustDefaultBypass.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, opts RouterOptions) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	if opts.Bypass == nil {
		opts.Bypass = tenant.MustDefaultBypass()
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
		private:       opts.Private,
		public:        opts.Public,
		bypass:        opts.Bypass,
		gatekeeper:    opts.Gatekeeper,
	}
}

// SetupChi builds the route tree.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, msgNotFound, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, msgMethodNotAllowed, nil)
	})

	router.registerHealthRoutes(r)
	router.registerPrivateRoutes(r)
	router.registerPublicRoutes(r)

	return r
}

func (router *Router) registerHealthRoutes(r chi.Router) {
	r.Get("/health/live", router.handler.HealthLive)
	r.Get("/health/ready", router.handler.HealthReady)
	r.Handle("/metrics", promhttp.Handler())
}

// registerPrivateRoutes adds the staff routes. Static segments win over
// {collection} in chi, so /api/url and /api/merchantDetails are never
// treated as collection names.
func (router *Router) registerPrivateRoutes(r chi.Router) {
	r.Route(PrivatePrefix, func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("api"))
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)
		r.Use(Authorize(router.private))

		r.Get("/url", router.handler.ProjectLinks)
		r.Get("/merchantDetails", router.handler.MerchantDetails)
		r.Post("/analytics/getOccupiedIds", router.handler.OccupiedIDs)

		r.With(GatekeepCollection(router.gatekeeper, CollectionParam)).
			Post("/aggregate/{"+CollectionParam+"}", router.handler.Aggregate)

		r.With(GatekeepCollection(router.gatekeeper, CollectionParam)).
			HandleFunc("/{"+CollectionParam+"}", router.handler.Collection)
	})
}

// registerPublicRoutes adds the public viewer routes. Image routes are on
// the bypass list and served without a token.
func (router *Router) registerPublicRoutes(r chi.Router) {
	r.Route(PublicPrefix, func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("public"))
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(AuthorizeUnless(router.public, router.bypass, PublicPrefix))

		r.Get("/merchantDetails", router.handler.PublicMerchantDetails)
		r.Get("/track/{"+ProjectIDParam+"}", router.handler.TrackDeliverables)
		r.Get("/thumbnail/{"+FileIDParam+"}", router.handler.Thumbnail)
		r.Get("/preview/{"+FileIDParam+"}", router.handler.Preview)
		r.Get("/thumbnail/", router.handler.Thumbnail)
		r.Get("/preview/", router.handler.Preview)
	})
}
