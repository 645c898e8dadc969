// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/tally/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a new router.
func NewRouter(handler *Handler, chiMw *ChiMiddleware) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: chiMw}
}

// Setup builds the HTTP handler.
//
// Middleware order:
//  1. request ID and correlation ID
//  2. real client IP, used by the rate limiter
//  3. request logging
//  4. panic recovery
//  5. CORS
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()
	h := router.handler
	mw := router.chiMiddleware

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogging())
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).MethodNotAllowed()
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Route("/events", func(r chi.Router) {
			r.With(mw.RateLimitWrite()).Post("/", h.UploadEvents)
			r.With(mw.RateLimit()).Get("/stats", h.EventStats)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Use(mw.RateLimit())
			r.Get("/active-users", h.ActiveUsers)
			r.Get("/acquisition", h.Acquisition)
			r.Get("/retention", h.Retention)
			r.Get("/rolling-active", h.RollingActive)
			r.Get("/cohorts", h.Cohorts)
			r.Get("/churn", h.Churn)
			r.Get("/report", h.Report)
		})
	})

	return r
}
