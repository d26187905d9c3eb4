// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pin

import (
	"log/slog"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"pinsmith/internal/models"
)

const (
	// fallbackAdvance approximates glyph width as a fraction of the font
	// size when no font is available.
	fallbackAdvance = 0.6

	// lineHeightFactor spaces baselines of wrapped lines.
	lineHeightFactor = 1.5
)

// fallbackFace draws text when no font resolved.
var fallbackFace = basicfont.Face7x13

// TextMetrics measures strings for one font at one size. When the font is
// nil, or a face cannot be built from it, widths use the fixed-width
// heuristic and Face returns nil.
type TextMetrics struct {
	size int
	face font.Face
}

// NewTextMetrics prepares measurement for f at size pixels. Close releases
// the underlying face.
func NewTextMetrics(f *Font, size int) *TextMetrics {
	m := &TextMetrics{size: size}
	if f == nil {
		return m
	}
	face, err := f.Face(size)
	if err != nil {
		slog.Warn("font face unavailable, using fallback metrics", "font", f.Path, "size", size, "error", err)
		return m
	}
	m.face = face
	return m
}

// Face returns the font face, or nil when using fallback metrics.
func (m *TextMetrics) Face() font.Face {
	return m.face
}

// Width returns the rendered width of s in pixels: the horizontal extent
// of its glyph bounding box, or len(s)*size*0.6 without a face.
func (m *TextMetrics) Width(s string) float64 {
	if m.face == nil {
		return fallbackWidth(s, m.size)
	}
	bounds, _ := font.BoundString(m.face, s)
	return float64(bounds.Max.X-bounds.Min.X) / 64
}

// Ink returns where the glyph ink of s starts relative to the pen origin,
// and its width. Without a face the ink starts at the origin.
func (m *TextMetrics) Ink(s string) (offset, width float64) {
	if m.face == nil {
		return 0, fallbackWidth(s, m.size)
	}
	bounds, _ := font.BoundString(m.face, s)
	return float64(bounds.Min.X) / 64, float64(bounds.Max.X-bounds.Min.X) / 64
}

// Close releases the face, if any.
func (m *TextMetrics) Close() {
	if m.face != nil {
		m.face.Close()
	}
}

// MeasureWidth is Width for a one-off measurement with f at size.
func MeasureWidth(s string, f *Font, size int) float64 {
	m := NewTextMetrics(f, size)
	defer m.Close()
	return m.Width(s)
}

func fallbackWidth(s string, size int) float64 {
	return float64(len(s)) * float64(size) * fallbackAdvance
}

// Wrap breaks text into lines no wider than maxWidth pixels, measured with
// f at fontSize. Words are separated by single spaces and are never split,
// so a word wider than maxWidth takes a line of its own.
func Wrap(text string, f *Font, fontSize int, maxWidth float64) []string {
	m := NewTextMetrics(f, fontSize)
	defer m.Close()
	return wrapLines(text, m, maxWidth)
}

func wrapLines(text string, m *TextMetrics, maxWidth float64) []string {
	var lines []string
	current := ""
	for _, word := range strings.Split(text, " ") {
		candidate := strings.TrimLeft(current+" "+word, " ")
		if current == "" || m.Width(candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// PlacedLine is one wrapped line positioned on the canvas. X is the pen
// origin and Y the baseline, both unrounded. The ink spans
// [X+InkOffset, X+InkOffset+Width].
type PlacedLine struct {
	Text      string
	X, Y      float64
	Width     float64
	InkOffset float64
}

// LayoutText wraps a text element and positions each line. The block is
// centred vertically on the element anchor; lines are aligned within the
// element width.
func LayoutText(e models.TextElement, canvasW, canvasH int, m *TextMetrics) []PlacedLine {
	box := ToPixelRect(e.PositionX, e.PositionY, e.Width, 0, canvasW, canvasH)
	anchorX, anchorY := box.CenterX(), box.CenterY()

	lines := wrapLines(e.Text, m, box.W)
	lineHeight := float64(e.FontSize) * lineHeightFactor
	startY := anchorY - float64(len(lines))*lineHeight/2

	placed := make([]PlacedLine, 0, len(lines))
	for i, line := range lines {
		offset, w := m.Ink(line)
		// Shift the pen so the ink, not the origin, meets the alignment edge.
		placed = append(placed, PlacedLine{
			Text:      line,
			X:         alignX(e.Alignment, anchorX, box.W, w) - offset,
			Y:         startY + float64(i)*lineHeight,
			Width:     w,
			InkOffset: offset,
		})
	}
	return placed
}

func alignX(align models.Alignment, anchorX, boxWidth, lineWidth float64) float64 {
	switch align {
	case models.AlignLeft:
		return anchorX - boxWidth/2
	case models.AlignRight:
		return anchorX + boxWidth/2 - lineWidth
	default:
		return anchorX - lineWidth/2
	}
}
