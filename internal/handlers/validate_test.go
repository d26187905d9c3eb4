package handlers

import (
	"strings"
	"testing"

	"pinsmith/internal/models"
)

func TestValidateTemplate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.Template)
		wantError bool
	}{
		{"default", func(*models.Template) {}, false},
		{"zero size is defaulted", func(t *models.Template) { t.Width, t.Height = 0, 0 }, false},
		{"oversized canvas", func(t *models.Template) { t.Width = models.MaxCanvasSide + 1 }, true},
		{"text too long", func(t *models.Template) { t.TextElements[0].Text = strings.Repeat("a", maxTextLen+1) }, true},
		{"font too large", func(t *models.Template) { t.TextElements[0].FontSize = maxFontSizePx + 1 }, true},
		{"reference too long", func(t *models.Template) { t.ImageElements[0].PlaceholderImage = strings.Repeat("a", maxRefLen+1) }, true},
		{"qr content too long", func(t *models.Template) {
			t.QRElements = []models.QRElement{{Content: strings.Repeat("a", maxQRContent+1)}}
		}, true},
		{"too many elements", func(t *models.Template) {
			t.TextElements = make([]models.TextElement, maxElements+1)
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := models.DefaultTemplate()
			tt.mutate(&tmpl)
			result := validateTemplate(&tmpl)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateTemplateName(t *testing.T) {
	tests := []struct {
		in        string
		want      string
		wantError bool
	}{
		{"My Pin", "My Pin", false},
		{"  padded  ", "padded", false},
		{"", "", true},
		{"   ", "", true},
		{strings.Repeat("a", 201), "", true},
	}
	for _, tt := range tests {
		got, msg := validateTemplateName(tt.in)
		if tt.wantError != (msg != "") {
			t.Errorf("validateTemplateName(%q) error = %q, wantError %v", tt.in, msg, tt.wantError)
		}
		if got != tt.want {
			t.Errorf("validateTemplateName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
