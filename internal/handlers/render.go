// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"pinsmith/internal/models"
	"pinsmith/internal/pin"
	"pinsmith/internal/store"
)

const (
	defaultRenderLimit = 20
	maxRenderLimit     = 100
)

// renderRequest carries either an inline template or the id of a saved
// one. The inline template wins when both are present.
type renderRequest struct {
	Template   *models.Template `json:"template"`
	TemplateID string           `json:"template_id"`
	Mode       string           `json:"mode"`
}

// Render handles POST /api/render.
func (a *API) Render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := pin.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		tmpl       models.Template
		templateID *uuid.UUID
	)
	switch {
	case req.Template != nil:
		tmpl = *req.Template
	case req.TemplateID != "":
		id, err := uuid.Parse(req.TemplateID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid template id")
			return
		}
		saved, err := a.templates.FindByID(id)
		if err != nil {
			slog.Error("failed to load template", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to load template.")
			return
		}
		if saved == nil {
			writeError(w, http.StatusNotFound, "Template not found.")
			return
		}
		tmpl = saved.Data
		templateID = &saved.ID
	default:
		writeError(w, http.StatusBadRequest, "Either template or template_id is required.")
		return
	}

	if msg := validateTemplate(&tmpl); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := a.renderer.Render(r.Context(), &tmpl, mode)
	if err != nil {
		if errors.Is(err, pin.ErrNoBackend) {
			writeError(w, http.StatusServiceUnavailable, "No rendering backend is available.")
			return
		}
		slog.Error("render failed", "template_id", templateID, "mode", mode, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render image.")
		return
	}

	if a.renders != nil {
		a.renders.Record(store.RenderLogEntry{
			TemplateID: templateID,
			Mode:       string(res.Mode),
			Filename:   res.Filename,
			URL:        res.URL,
			Width:      res.Width,
			Height:     res.Height,
			Failed:     len(res.Failed()),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"image_url": res.URL,
		"filename":  res.Filename,
		"mode":      res.Mode,
		"width":     res.Width,
		"height":    res.Height,
		"font":      res.Font,
		"elements":  res.Elements,
	})
}

// ListRenders handles GET /api/renders.
func (a *API) ListRenders(w http.ResponseWriter, r *http.Request) {
	limit := defaultRenderLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRenderLimit)
	}

	entries := []store.RenderLogEntry{}
	if a.renders != nil {
		recent, err := a.renders.Recent(limit)
		if err != nil {
			slog.Error("failed to list renders", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list renders.")
			return
		}
		if recent != nil {
			entries = recent
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"renders": entries})
}
