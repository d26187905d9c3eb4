// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"pinsmith/internal/models"
)

// templateRequest is the body of create and update calls.
type templateRequest struct {
	Name string          `json:"name"`
	Data models.Template `json:"data"`
}

// ListTemplates handles GET /api/templates.
func (a *API) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := a.templates.List()
	if err != nil {
		slog.Error("failed to list templates", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list templates.")
		return
	}
	if templates == nil {
		templates = []models.SavedTemplate{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": templates})
}

// DefaultTemplate handles GET /api/templates/default.
func (a *API) DefaultTemplate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.DefaultTemplate())
}

// GetTemplate handles GET /api/templates/{id}.
func (a *API) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := a.templates.FindByID(id)
	if err != nil {
		slog.Error("failed to load template", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load template.")
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "Template not found.")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreateTemplate handles POST /api/templates.
func (a *API) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	a.saveTemplate(w, r, uuid.Nil, http.StatusCreated)
}

// UpdateTemplate handles PUT /api/templates/{id}.
func (a *API) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.saveTemplate(w, r, id, http.StatusOK)
}

func (a *API) saveTemplate(w http.ResponseWriter, r *http.Request, id uuid.UUID, status int) {
	var req templateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name, msg := validateTemplateName(req.Name)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateTemplate(&req.Data); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	saved, err := a.templates.Save(id, name, req.Data)
	if err != nil {
		slog.Error("failed to save template", "id", id, "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save template.")
		return
	}
	if saved == nil {
		writeError(w, http.StatusNotFound, "Template not found.")
		return
	}
	slog.Info("template saved", "id", saved.ID, "name", saved.Name, "version", saved.Version)
	writeJSON(w, status, saved)
}

// DeleteTemplate handles DELETE /api/templates/{id}.
func (a *API) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	deleted, err := a.templates.Delete(id)
	if err != nil {
		slog.Error("failed to delete template", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete template.")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Template not found.")
		return
	}
	slog.Info("template deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
