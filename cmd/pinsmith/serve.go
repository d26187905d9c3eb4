// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pinsmith/internal/cache"
	"pinsmith/internal/config"
	"pinsmith/internal/database"
	"pinsmith/internal/handlers"
	"pinsmith/internal/middleware"
	"pinsmith/internal/models"
	"pinsmith/internal/router"
	"pinsmith/internal/store"
)

// memoryRenderLogSize bounds the in-memory render log.
const memoryRenderLogSize = 500

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Start the template and render API.

Configuration comes from the environment (APP_PORT, TEMPLATE_STORE,
RENDER_BACKEND, ASSET_DIR, S3_*, ...). Stops gracefully on SIGINT/SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	setupLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"template_store", cfg.TemplateStore,
		"render_backend", cfg.RenderBackend,
	)

	templates, renders, db, err := openStores(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	// Optional read-through template cache in Valkey.
	if cfg.TemplateCache == config.CacheValkey {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			return fmt.Errorf("connect to valkey: %w", err)
		}
		defer valkeyClient.Close()
		templates = cache.NewCachedTemplates(templates, cache.NewTemplateCache(valkeyClient, cfg.TemplateCacheTTL))
		slog.Info("template cache enabled", "ttl", cfg.TemplateCacheTTL)
	}

	assets, assetDir, err := newAssetStore(cfg)
	if err != nil {
		return err
	}
	comp, err := newCompositor(cfg, assets)
	if err != nil {
		return err
	}

	assetPath, err := cfg.AssetPath()
	if err != nil {
		return err
	}
	opts := router.Options{AssetDir: assetDir, AssetPath: assetPath}
	if cfg.RenderRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RenderRateLimit, time.Minute)
		defer limiter.Stop()
		limiter.TrustProxies(cfg.TrustedProxies)
		opts.RenderLimiter = limiter
	}
	r := router.New(handlers.NewAPI(templates, comp, renders), opts)

	// WriteTimeout covers remote image fetches during a render.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 60*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	}

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// openStores selects the template store and render log. db is non-nil
// only for the Postgres store and must be closed by the caller.
func openStores(cfg *config.Config) (store.Templates, store.RenderLog, *sql.DB, error) {
	if cfg.TemplateStore == config.StoreMemory {
		mem := store.NewMemoryTemplateStore()
		if _, err := mem.Save(uuid.Nil, database.SeedTemplateName, models.DefaultTemplate()); err != nil {
			return nil, nil, nil, fmt.Errorf("seed memory store: %w", err)
		}
		slog.Warn("using in-memory template store; templates are lost on restart")
		return mem, store.NewMemoryRenderLog(memoryRenderLogSize), nil, nil
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	// Seed the starter template (no-op if templates already exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("seed database: %w", err)
		}
	}
	return store.NewTemplateStore(db), store.NewRenderLogStore(db), db, nil
}
