// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pin

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// GGRenderer draws with a fogleman/gg context.
type GGRenderer struct{}

func (GGRenderer) Name() string { return "gg" }

func (GGRenderer) NewCanvas(width, height int) (Canvas, error) {
	if err := checkCanvasSize(width, height); err != nil {
		return nil, err
	}
	return &ggCanvas{dc: gg.NewContext(width, height)}, nil
}

type ggCanvas struct {
	dc *gg.Context
}

func (c *ggCanvas) Fill(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

func (c *ggCanvas) DrawImage(src image.Image, dst image.Rectangle) {
	sb := src.Bounds()
	if dst.Empty() || sb.Empty() {
		return
	}
	c.dc.Push()
	c.dc.Translate(float64(dst.Min.X), float64(dst.Min.Y))
	c.dc.Scale(float64(dst.Dx())/float64(sb.Dx()), float64(dst.Dy())/float64(sb.Dy()))
	c.dc.DrawImage(src, -sb.Min.X, -sb.Min.Y)
	c.dc.Pop()
}

func (c *ggCanvas) DrawText(text string, face font.Face, x, y int, col color.Color) {
	c.dc.SetFontFace(face)
	c.dc.SetColor(col)
	c.dc.DrawString(text, float64(x), float64(y))
}

func (c *ggCanvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}
