// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains for the
// pinsmith API and the local asset file server.
package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pinsmith/internal/handlers"
	"pinsmith/internal/middleware"
)

// DefaultAssetPath is where local assets are served when no path is given.
const DefaultAssetPath = "/uploads"

// Options configures optional routes.
type Options struct {
	// AssetDir is served under AssetPath when set. Leave empty when assets
	// live in object storage.
	AssetDir string
	// AssetPath is the URL path assets are served under; "" means /uploads.
	// It must match the path of the asset store's base URL.
	AssetPath string
	// RenderLimiter throttles POST /api/render per client IP when set.
	RenderLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router.
func New(api *handlers.API, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoStore)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", api.ListTemplates)
			r.Post("/", api.CreateTemplate)
			r.Get("/default", api.DefaultTemplate)
			r.Get("/{id}", api.GetTemplate)
			r.Put("/{id}", api.UpdateTemplate)
			r.Delete("/{id}", api.DeleteTemplate)
		})

		r.Group(func(r chi.Router) {
			if opts.RenderLimiter != nil {
				r.Use(opts.RenderLimiter.Middleware)
			}
			r.Post("/render", api.Render)
		})
		r.Get("/renders", api.ListRenders)
	})

	if opts.AssetDir != "" {
		prefix := strings.TrimRight(opts.AssetPath, "/")
		if prefix == "" {
			prefix = DefaultAssetPath
		}
		files := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(opts.AssetDir)))
		r.With(middleware.Immutable).Handle(prefix+"/*", files)
	}

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
