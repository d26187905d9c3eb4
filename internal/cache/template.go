// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// template.go caches saved templates in Valkey so renders by template id
// skip the database. Entries are JSON and are dropped on save and delete.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pinsmith/internal/models"
	"pinsmith/internal/store"
)

const (
	// templateKeyPrefix is the Valkey key prefix for cached templates.
	templateKeyPrefix = "pin-template:"

	// DefaultTemplateTTL is how long a template stays cached.
	DefaultTemplateTTL = 10 * time.Minute

	// opTimeout bounds each cache round trip.
	opTimeout = 2 * time.Second
)

// TemplateCache stores saved templates in Valkey. Cache errors are logged
// and treated as misses.
type TemplateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTemplateCache creates a template cache backed by the given Valkey client.
func NewTemplateCache(client *redis.Client, ttl time.Duration) *TemplateCache {
	if ttl == 0 {
		ttl = DefaultTemplateTTL
	}
	return &TemplateCache{client: client, ttl: ttl}
}

// TemplateKey returns the cache key for a template id.
func TemplateKey(id uuid.UUID) string {
	return templateKeyPrefix + id.String()
}

// Get returns the cached template, or false on a miss.
func (c *TemplateCache) Get(ctx context.Context, id uuid.UUID) (*models.SavedTemplate, bool) {
	val, err := c.client.Get(ctx, TemplateKey(id)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("template cache get error", "id", id, "error", err)
		return nil, false
	}

	var t models.SavedTemplate
	if err := json.Unmarshal(val, &t); err != nil {
		slog.Warn("template cache entry corrupt", "id", id, "error", err)
		c.Invalidate(ctx, id)
		return nil, false
	}
	slog.Debug("template cache hit", "id", id)
	return &t, true
}

// Set stores a template with the configured TTL.
func (c *TemplateCache) Set(ctx context.Context, t *models.SavedTemplate) {
	val, err := json.Marshal(t)
	if err != nil {
		slog.Warn("template cache encode error", "id", t.ID, "error", err)
		return
	}
	if err := c.client.Set(ctx, TemplateKey(t.ID), val, c.ttl).Err(); err != nil {
		slog.Warn("template cache set error", "id", t.ID, "error", err)
	}
}

// Invalidate removes a template from the cache.
func (c *TemplateCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, TemplateKey(id)).Err(); err != nil {
		slog.Warn("template cache invalidate error", "id", id, "error", err)
		return
	}
	slog.Debug("template cache invalidated", "id", id)
}

// CachedTemplates wraps a template store with read-through caching.
type CachedTemplates struct {
	store.Templates
	cache *TemplateCache
}

// NewCachedTemplates layers cache over s.
func NewCachedTemplates(s store.Templates, cache *TemplateCache) *CachedTemplates {
	return &CachedTemplates{Templates: s, cache: cache}
}

// FindByID serves from the cache and fills it on a miss.
func (c *CachedTemplates) FindByID(id uuid.UUID) (*models.SavedTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if t, ok := c.cache.Get(ctx, id); ok {
		return t, nil
	}
	t, err := c.Templates.FindByID(id)
	if err != nil || t == nil {
		return t, err
	}
	c.cache.Set(ctx, t)
	return t, nil
}

// Save writes through to the store and drops the stale entry. A missing
// template is still invalidated so a concurrent delete cannot leave it cached.
func (c *CachedTemplates) Save(id uuid.UUID, name string, data models.Template) (*models.SavedTemplate, error) {
	t, err := c.Templates.Save(id, name, data)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if t == nil {
		c.cache.Invalidate(ctx, id)
		return nil, nil
	}
	c.cache.Invalidate(ctx, t.ID)
	return t, nil
}

// Delete removes from the store and the cache.
func (c *CachedTemplates) Delete(id uuid.UUID) (bool, error) {
	ok, err := c.Templates.Delete(id)
	if err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	c.cache.Invalidate(ctx, id)
	return ok, nil
}
