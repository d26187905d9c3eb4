// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pinsmith/internal/models"
)

// MemoryTemplateStore keeps templates in process memory. Used when no
// database is configured and in tests.
type MemoryTemplateStore struct {
	mu        sync.RWMutex
	templates map[uuid.UUID]models.SavedTemplate
	now       func() time.Time
}

// NewMemoryTemplateStore creates an empty in-memory store.
func NewMemoryTemplateStore() *MemoryTemplateStore {
	return &MemoryTemplateStore{
		templates: make(map[uuid.UUID]models.SavedTemplate),
		now:       time.Now,
	}
}

func (s *MemoryTemplateStore) List() ([]models.SavedTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.SavedTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, cloneSaved(t))
	}
	slices.SortFunc(out, func(a, b models.SavedTemplate) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (s *MemoryTemplateStore) FindByID(id uuid.UUID) (*models.SavedTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return nil, nil
	}
	t = cloneSaved(t)
	return &t, nil
}

func (s *MemoryTemplateStore) Save(id uuid.UUID, name string, data models.Template) (*models.SavedTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var t models.SavedTemplate
	if id == uuid.Nil {
		t = models.SavedTemplate{ID: uuid.New(), Version: 1, CreatedAt: now}
	} else {
		existing, ok := s.templates[id]
		if !ok {
			return nil, nil
		}
		t = existing
		t.Version++
	}
	t.Name = name
	t.Data = cloneTemplate(data)
	t.UpdatedAt = now
	s.templates[t.ID] = t

	out := cloneSaved(t)
	return &out, nil
}

func (s *MemoryTemplateStore) Delete(id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[id]; !ok {
		return false, nil
	}
	delete(s.templates, id)
	return true, nil
}

// cloneSaved copies the element slices so callers cannot mutate stored state.
func cloneSaved(t models.SavedTemplate) models.SavedTemplate {
	t.Data = cloneTemplate(t.Data)
	return t
}

func cloneTemplate(t models.Template) models.Template {
	t.TextElements = slices.Clone(t.TextElements)
	t.ImageElements = slices.Clone(t.ImageElements)
	t.QRElements = slices.Clone(t.QRElements)
	return t
}
