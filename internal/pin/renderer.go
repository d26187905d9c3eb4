// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pin

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"golang.org/x/image/font"
)

// ErrNoBackend is returned when no raster backend is available under the
// requested name.
var ErrNoBackend = errors.New("no raster backend available")

// Renderer creates canvases. Implementations are selected once at startup.
type Renderer interface {
	Name() string
	NewCanvas(width, height int) (Canvas, error)
}

// Canvas is a drawable RGBA surface.
type Canvas interface {
	// Fill paints the whole canvas with c.
	Fill(c color.Color)
	// DrawImage stretches src into dst, compositing over what is already
	// drawn. Parts of dst outside the canvas are clipped.
	DrawImage(src image.Image, dst image.Rectangle)
	// DrawText draws text with its left edge at x and baseline at y.
	DrawText(text string, face font.Face, x, y int, c color.Color)
	// EncodePNG writes the canvas as PNG.
	EncodePNG(w io.Writer) error
}

// Backends lists renderer names accepted by NewRenderer.
var Backends = []string{"raster", "gg"}

// NewRenderer returns the backend called name. An empty name selects raster.
func NewRenderer(name string) (Renderer, error) {
	switch name {
	case "", "raster":
		return RasterRenderer{}, nil
	case "gg":
		return GGRenderer{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoBackend, name)
}

func checkCanvasSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	return nil
}
