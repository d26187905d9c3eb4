// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"pinsmith/internal/models"
)

// Validation limits for template payloads.
const (
	maxElements   = 50
	maxTextLen    = 2_000
	maxRefLen     = 2_048
	maxQRContent  = 1_000
	maxFontSizePx = 1_000
)

// validateTemplate normalizes t in place and returns the first problem
// found, or "".
func validateTemplate(t *models.Template) string {
	t.Normalize()
	if err := t.Validate(); err != nil {
		return err.Error()
	}

	if n := len(t.TextElements) + len(t.ImageElements) + len(t.QRElements); n > maxElements {
		return fmt.Sprintf("Too many elements (%d, max %d).", n, maxElements)
	}
	if len(t.BackgroundImage) > maxRefLen {
		return "Background image reference is too long."
	}
	for i, e := range t.TextElements {
		if utf8.RuneCountInString(e.Text) > maxTextLen {
			return fmt.Sprintf("Text element %d is too long (max %d characters).", i, maxTextLen)
		}
		if e.FontSize > maxFontSizePx {
			return fmt.Sprintf("Text element %d font size exceeds %d px.", i, maxFontSizePx)
		}
	}
	for i, e := range t.ImageElements {
		if len(e.PlaceholderImage) > maxRefLen || len(e.SelectedImage) > maxRefLen {
			return fmt.Sprintf("Image element %d reference is too long.", i)
		}
	}
	for i, e := range t.QRElements {
		if len(e.Content) > maxQRContent {
			return fmt.Sprintf("QR element %d content is too long (max %d bytes).", i, maxQRContent)
		}
	}
	return ""
}

// validateTemplateName trims the name and checks it.
func validateTemplateName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if err := models.ValidateTemplateName(name); err != nil {
		return "", err.Error()
	}
	return name, ""
}
