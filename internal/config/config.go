// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"net/netip"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"pinsmith/internal/middleware"
	"pinsmith/internal/pin"
)

// Template store and cache backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	CacheValkey = "valkey"
	CacheNone   = "none"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel slog.Level

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Template persistence
	TemplateStore    string // "postgres" or "memory"
	TemplateCache    string // "valkey" or "none"
	TemplateCacheTTL time.Duration

	// Local asset directory and the URL it is served under
	AssetDir     string
	AssetBaseURL string

	// S3-compatible object storage; replaces the local asset directory when
	// endpoint and access key are set.
	S3Endpoint     string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3BucketPublic string
	S3PublicURL    string

	// Rendering
	RenderBackend   string
	FontCandidates  []string
	FetchTimeout    time.Duration
	// RenderRateLimit caps renders per client IP per minute; 0 disables.
	RenderRateLimit int
	// TrustedProxies are reverse proxies whose X-Forwarded-For and
	// X-Real-IP headers identify the client. Empty trusts no header.
	TrustedProxies  []netip.Prefix
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if a value cannot be
// parsed or critical values are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "pinsmith"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "pinsmith"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		TemplateStore: envOrDefault("TEMPLATE_STORE", StoreMemory),
		TemplateCache: envOrDefault("TEMPLATE_CACHE", CacheNone),

		AssetDir:     envOrDefault("ASSET_DIR", "./uploads"),
		AssetBaseURL: strings.TrimRight(envOrDefault("ASSET_BASE_URL", "http://localhost:8080/uploads"), "/"),

		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3Region:       envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		S3BucketPublic: envOrDefault("S3_BUCKET_PUBLIC", "pinsmith-public"),
		S3PublicURL:    os.Getenv("S3_PUBLIC_URL"),

		RenderBackend:  envOrDefault("RENDER_BACKEND", "raster"),
		FontCandidates: splitList(os.Getenv("FONT_CANDIDATES")),
	}
	if len(cfg.FontCandidates) == 0 {
		cfg.FontCandidates = slices.Clone(pin.DefaultFontCandidates)
	}

	var err error
	if cfg.LogLevel, err = parseLevel(envOrDefault("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = parseDuration("FETCH_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.TemplateCacheTTL, err = parseDuration("TEMPLATE_CACHE_TTL", "10m"); err != nil {
		return nil, err
	}
	if cfg.TrustedProxies, err = middleware.ParseTrustedProxies(splitList(os.Getenv("TRUSTED_PROXIES"))); err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	if cfg.RenderRateLimit, err = strconv.Atoi(envOrDefault("RENDER_RATE_LIMIT", "30")); err != nil || cfg.RenderRateLimit < 0 {
		return nil, fmt.Errorf("RENDER_RATE_LIMIT must be a non-negative integer, got %q", os.Getenv("RENDER_RATE_LIMIT"))
	}

	switch cfg.TemplateStore {
	case StorePostgres, StoreMemory:
	default:
		return nil, fmt.Errorf("TEMPLATE_STORE must be %q or %q, got %q", StorePostgres, StoreMemory, cfg.TemplateStore)
	}
	switch cfg.TemplateCache {
	case CacheValkey, CacheNone:
	default:
		return nil, fmt.Errorf("TEMPLATE_CACHE must be %q or %q, got %q", CacheValkey, CacheNone, cfg.TemplateCache)
	}
	if !slices.Contains(pin.Backends, cfg.RenderBackend) {
		return nil, fmt.Errorf("RENDER_BACKEND must be one of %v, got %q", pin.Backends, cfg.RenderBackend)
	}

	if _, err := cfg.AssetPath(); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.TemplateStore == StorePostgres && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// AssetPath returns the URL path local assets are served under, taken from
// ASSET_BASE_URL so the server answers the URLs it hands out.
func (c *Config) AssetPath() (string, error) {
	u, err := url.Parse(c.AssetBaseURL)
	if err != nil {
		return "", fmt.Errorf("ASSET_BASE_URL: %w", err)
	}
	p := strings.TrimRight(u.Path, "/")
	if p == "" || p == "/api" || strings.HasPrefix(p, "/api/") || p == "/health" {
		return "", fmt.Errorf("ASSET_BASE_URL must have a path that does not clash with the API, got %q", c.AssetBaseURL)
	}
	return p, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UseS3 reports whether rendered pins go to object storage.
func (c *Config) UseS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}

func parseLevel(raw string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return l, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
