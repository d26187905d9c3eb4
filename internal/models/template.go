// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Canvas and element defaults applied by Normalize.
const (
	DefaultWidth           = 1000
	DefaultHeight          = 1500
	DefaultBackgroundColor = "#ffffff"
	DefaultFontSize        = 24
	DefaultFontColor       = "#000000"

	// MaxCanvasSide caps either canvas dimension so a single template
	// cannot allocate an unbounded bitmap.
	MaxCanvasSide = 8000

	maxTemplateNameLen = 200
)

// Alignment controls horizontal placement of wrapped text lines.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Template is a reusable pin layout: canvas size, background and the
// ordered element lists. Slice order is paint order.
type Template struct {
	Width           int            `json:"width" yaml:"width"`
	Height          int            `json:"height" yaml:"height"`
	BackgroundColor string         `json:"background_color" yaml:"background_color"`
	BackgroundImage string         `json:"background_image" yaml:"background_image"`
	TextElements    []TextElement  `json:"text_elements" yaml:"text_elements"`
	ImageElements   []ImageElement `json:"image_elements" yaml:"image_elements"`
	QRElements      []QRElement    `json:"qr_elements,omitempty" yaml:"qr_elements,omitempty"`
}

// TextElement is a block of wrapped text anchored at its centre.
type TextElement struct {
	Text      string    `json:"text" yaml:"text"`
	FontSize  int       `json:"font_size" yaml:"font_size"`
	FontColor string    `json:"font_color" yaml:"font_color"`
	PositionX float64   `json:"position_x" yaml:"position_x"`
	PositionY float64   `json:"position_y" yaml:"position_y"`
	Width     float64   `json:"width" yaml:"width"`
	Alignment Alignment `json:"alignment" yaml:"alignment"`
}

// ImageElement is a picture stretched into a percentage rectangle.
type ImageElement struct {
	PlaceholderImage string  `json:"placeholder_image" yaml:"placeholder_image"`
	SelectedImage    string  `json:"selected_image,omitempty" yaml:"selected_image,omitempty"`
	PositionX        float64 `json:"position_x" yaml:"position_x"`
	PositionY        float64 `json:"position_y" yaml:"position_y"`
	Width            float64 `json:"width" yaml:"width"`
	Height           float64 `json:"height" yaml:"height"`
}

// Source returns the reference to draw: the editor's selection wins over
// the template placeholder.
func (e ImageElement) Source() string {
	if e.SelectedImage != "" {
		return e.SelectedImage
	}
	return e.PlaceholderImage
}

// QRElement is a square QR code whose side is Size percent of the canvas width.
type QRElement struct {
	Content    string  `json:"content" yaml:"content"`
	PositionX  float64 `json:"position_x" yaml:"position_x"`
	PositionY  float64 `json:"position_y" yaml:"position_y"`
	Size       float64 `json:"size" yaml:"size"`
	Foreground string  `json:"foreground,omitempty" yaml:"foreground,omitempty"`
	Background string  `json:"background,omitempty" yaml:"background,omitempty"`
}

// SavedTemplate is a named template as persisted by a template store.
type SavedTemplate struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Data      Template  `json:"data"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultTemplate returns the starter layout offered for new templates.
func DefaultTemplate() Template {
	return Template{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		BackgroundColor: DefaultBackgroundColor,
		TextElements: []TextElement{{
			Text:      "Your Text Here",
			FontSize:  DefaultFontSize,
			FontColor: DefaultFontColor,
			PositionX: 50,
			PositionY: 50,
			Width:     80,
			Alignment: AlignCenter,
		}},
		ImageElements: []ImageElement{{
			PositionX: 50,
			PositionY: 25,
			Width:     80,
			Height:    40,
		}},
	}
}

// Normalize fills defaults and clamps out-of-range values in place.
// It is applied once at the store and API boundary; renderers assume a
// normalized template.
func (t *Template) Normalize() {
	if t.Width <= 0 {
		t.Width = DefaultWidth
	}
	if t.Height <= 0 {
		t.Height = DefaultHeight
	}
	if t.BackgroundColor == "" {
		t.BackgroundColor = DefaultBackgroundColor
	}
	t.BackgroundImage = strings.TrimSpace(t.BackgroundImage)

	for i := range t.TextElements {
		e := &t.TextElements[i]
		if e.FontSize <= 0 {
			e.FontSize = DefaultFontSize
		}
		if e.FontColor == "" {
			e.FontColor = DefaultFontColor
		}
		switch e.Alignment {
		case AlignLeft, AlignCenter, AlignRight:
		default:
			e.Alignment = AlignCenter
		}
		e.PositionX = clampPercent(e.PositionX)
		e.PositionY = clampPercent(e.PositionY)
		e.Width = clampPercent(e.Width)
	}

	for i := range t.ImageElements {
		e := &t.ImageElements[i]
		e.PlaceholderImage = strings.TrimSpace(e.PlaceholderImage)
		e.SelectedImage = strings.TrimSpace(e.SelectedImage)
		e.PositionX = clampPercent(e.PositionX)
		e.PositionY = clampPercent(e.PositionY)
		e.Width = clampPercent(e.Width)
		e.Height = clampPercent(e.Height)
	}

	for i := range t.QRElements {
		e := &t.QRElements[i]
		e.PositionX = clampPercent(e.PositionX)
		e.PositionY = clampPercent(e.PositionY)
		e.Size = clampPercent(e.Size)
	}
}

// Validate reports the first structural problem with a normalized template.
func (t *Template) Validate() error {
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", t.Width, t.Height)
	}
	if t.Width > MaxCanvasSide || t.Height > MaxCanvasSide {
		return fmt.Errorf("canvas size %dx%d exceeds %d px", t.Width, t.Height, MaxCanvasSide)
	}
	return nil
}

// ValidateTemplateName checks a template name the same way for every entry point.
func ValidateTemplateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("template name is required")
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLen {
		return fmt.Errorf("template name is too long (max %d characters)", maxTemplateNameLen)
	}
	return nil
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
