// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists pin templates and the render log.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"pinsmith/internal/models"
)

// Templates is the template persistence contract shared by the Postgres
// and in-memory stores.
type Templates interface {
	// List returns all templates ordered by name.
	List() ([]models.SavedTemplate, error)
	// FindByID returns nil, nil when the template does not exist.
	FindByID(id uuid.UUID) (*models.SavedTemplate, error)
	// Save creates a template when id == uuid.Nil. Otherwise it replaces
	// the name and data of the existing template, bumping its version, and
	// returns nil, nil when that template does not exist. Saves never
	// recreate a deleted template.
	Save(id uuid.UUID, name string, data models.Template) (*models.SavedTemplate, error)
	// Delete reports whether a template was removed.
	Delete(id uuid.UUID) (bool, error)
}

// TemplateStore handles pin template database operations.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateColumns = `id, name, data, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*models.SavedTemplate, error) {
	var (
		t    models.SavedTemplate
		data []byte
	)
	if err := row.Scan(&t.ID, &t.Name, &data, &t.Version, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &t.Data); err != nil {
		return nil, fmt.Errorf("decode template %s: %w", t.ID, err)
	}
	return &t, nil
}

// List returns all templates ordered by name.
func (s *TemplateStore) List() ([]models.SavedTemplate, error) {
	rows, err := s.db.Query(`SELECT ` + templateColumns + ` FROM pin_templates ORDER BY name, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.SavedTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// FindByID retrieves a template by its UUID. Returns nil if not found.
func (s *TemplateStore) FindByID(id uuid.UUID) (*models.SavedTemplate, error) {
	t, err := scanTemplate(s.db.QueryRow(`SELECT `+templateColumns+` FROM pin_templates WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// Save inserts a template when id is uuid.Nil, otherwise updates it in a
// single statement. Updates increment the version; a missing row returns nil.
func (s *TemplateStore) Save(id uuid.UUID, name string, data models.Template) (*models.SavedTemplate, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}

	if id == uuid.Nil {
		t, err := scanTemplate(s.db.QueryRow(`
			INSERT INTO pin_templates (id, name, data)
			VALUES ($1, $2, $3::jsonb)
			RETURNING `+templateColumns, uuid.New(), name, string(raw)))
		if err != nil {
			return nil, fmt.Errorf("create template: %w", err)
		}
		return t, nil
	}

	t, err := scanTemplate(s.db.QueryRow(`
		UPDATE pin_templates SET
			name = $2,
			data = $3::jsonb,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+templateColumns, id, name, string(raw)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return t, nil
}

// Delete removes a template by ID.
func (s *TemplateStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM pin_templates WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete template: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete template rows: %w", err)
	}
	return n > 0, nil
}
