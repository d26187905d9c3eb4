// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"log/slog"

	"pinsmith/internal/config"
	"pinsmith/internal/pin"
	"pinsmith/internal/storage"
)

// assetStore is where rendered pins are written and how references to
// earlier uploads are mapped back to disk.
type assetStore interface {
	pin.AssetWriter
	pin.LocalResolver
}

// newAssetStore returns the S3 store when configured, otherwise a local
// directory. localDir is empty for S3.
func newAssetStore(cfg *config.Config) (assets assetStore, localDir string, err error) {
	if cfg.UseS3() {
		s3, err := storage.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3BucketPublic, cfg.S3PublicURL)
		if err != nil {
			return nil, "", fmt.Errorf("init s3 storage: %w", err)
		}
		if s3 != nil {
			slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", s3.Bucket())
			return s3, "", nil
		}
	}

	local, err := storage.NewLocal(cfg.AssetDir, cfg.AssetBaseURL)
	if err != nil {
		return nil, "", fmt.Errorf("init local storage: %w", err)
	}
	slog.Info("local asset storage", "dir", local.Root(), "base_url", cfg.AssetBaseURL)
	return local, local.Root(), nil
}

// newCompositor wires the configured backend, fonts and loader around assets.
func newCompositor(cfg *config.Config, assets assetStore) (*pin.Compositor, error) {
	renderer, err := pin.NewRenderer(cfg.RenderBackend)
	if err != nil {
		return nil, err
	}
	return pin.NewCompositor(pin.Options{
		Renderer:       renderer,
		Loader:         pin.NewLoader(assets, pin.NewHTTPFetcher(cfg.FetchTimeout)),
		Assets:         assets,
		FontCandidates: cfg.FontCandidates,
	}), nil
}
