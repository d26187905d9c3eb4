// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// render_log.go records finished renders for auditing: which template was
// rendered, in which mode, and where the output went.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RenderLogEntry is one finished render.
type RenderLogEntry struct {
	ID         uuid.UUID  `json:"id"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
	Mode       string     `json:"mode"`
	Filename   string     `json:"filename"`
	URL        string     `json:"image_url"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Failed     int        `json:"failed_elements"`
	CreatedAt  time.Time  `json:"created_at"`
}

// RenderLog records renders. Record is best-effort and never fails the
// render it describes.
type RenderLog interface {
	Record(e RenderLogEntry)
	Recent(limit int) ([]RenderLogEntry, error)
}

// RenderLogStore keeps the render log in PostgreSQL.
type RenderLogStore struct {
	db *sql.DB
}

// NewRenderLogStore creates a new RenderLogStore.
func NewRenderLogStore(db *sql.DB) *RenderLogStore {
	return &RenderLogStore{db: db}
}

// Record inserts a render entry.
func (s *RenderLogStore) Record(e RenderLogEntry) {
	_, err := s.db.Exec(`
		INSERT INTO pin_renders (template_id, mode, filename, url, width, height, failed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.TemplateID, e.Mode, e.Filename, e.URL, e.Width, e.Height, e.Failed)
	if err != nil {
		slog.Warn("failed to record render", "filename", e.Filename, "error", err)
		return
	}
	slog.Debug("render recorded", "filename", e.Filename)
}

// Recent returns the newest entries first.
func (s *RenderLogStore) Recent(limit int) ([]RenderLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, template_id, mode, filename, url, width, height, failed, created_at
		FROM pin_renders
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query render log: %w", err)
	}
	defer rows.Close()

	var entries []RenderLogEntry
	for rows.Next() {
		var (
			e   RenderLogEntry
			tid uuid.NullUUID
		)
		if err := rows.Scan(&e.ID, &tid, &e.Mode, &e.Filename, &e.URL, &e.Width, &e.Height, &e.Failed, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan render log: %w", err)
		}
		if tid.Valid {
			e.TemplateID = &tid.UUID
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MemoryRenderLog keeps the most recent entries in memory.
type MemoryRenderLog struct {
	mu      sync.Mutex
	entries []RenderLogEntry
	max     int
}

// NewMemoryRenderLog keeps at most max entries.
func NewMemoryRenderLog(max int) *MemoryRenderLog {
	return &MemoryRenderLog{max: max}
}

func (l *MemoryRenderLog) Record(e RenderLogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	l.entries = append(l.entries, e)
	if over := len(l.entries) - l.max; over > 0 {
		l.entries = l.entries[over:]
	}
}

func (l *MemoryRenderLog) Recent(limit int) ([]RenderLogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := min(limit, len(l.entries))
	out := make([]RenderLogEntry, 0, n)
	for i := len(l.entries) - 1; i >= len(l.entries)-n; i-- {
		out = append(out, l.entries[i])
	}
	return out, nil
}
