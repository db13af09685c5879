// Local Legends - Location-Based Story Sharing
// Copyright 2026 Local Legends Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/locallegends/locallegends

package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/locallegends/locallegends/internal/config"
	"github.com/locallegends/locallegends/internal/middleware"
)

// Router assembles the HTTP routing tree.
type Router struct {
	handler *Handler
	cfg     *config.Config
}

// NewRouter builds a router serving the given handler set.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	return &Router{handler: handler, cfg: cfg}
}

// Setup returns the fully wired chi router: global middleware, the /api
// group, metrics, and static frontend serving for everything else.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.cfg.Security.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.PrometheusMetrics)
		api.Use(securityHeaders)
		if !rt.cfg.Security.DisableRateLimit {
			api.Use(httprate.LimitByIP(
				rt.cfg.Security.RateLimitReqs,
				rt.cfg.Security.RateLimitWindow,
			))
		}

		api.Get("/stories", rt.handler.StoriesNearby)
		api.Post("/story", rt.handler.CreateStory)
		api.Put("/story/{id}", rt.handler.UpdateStory)
		api.Delete("/story/{id}", rt.handler.DeleteStory)

		api.Get("/health", rt.handler.Health)
		api.Get("/health/live", rt.handler.HealthLive)
		api.Get("/health/ready", rt.handler.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/*", rt.serveStaticOrIndex)

	return r
}

// securityHeaders sets conservative response headers on API routes.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// serveStaticOrIndex serves files from the static directory, falling back to
// index.html for unknown paths so the frontend owns client-side routes.
func (rt *Router) serveStaticOrIndex(w http.ResponseWriter, r *http.Request) {
	dir := rt.cfg.Server.StaticDir
	name := strings.TrimPrefix(filepath.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}

	path := filepath.Join(dir, name)
	if !fileExists(path) {
		path = filepath.Join(dir, "index.html")
	}

	setStaticCacheHeaders(w, path)
	http.ServeFile(w, r, path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// setStaticCacheHeaders gives hashed-safe asset types a day of caching and
// keeps HTML revalidating.
func setStaticCacheHeaders(w http.ResponseWriter, path string) {
	switch filepath.Ext(path) {
	case ".css", ".js", ".svg", ".png", ".ico", ".woff2":
		w.Header().Set("Cache-Control", "public, max-age=86400")
	default:
		w.Header().Set("Cache-Control", "no-cache")
	}
}
