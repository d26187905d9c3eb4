// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pin

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// RasterRenderer draws with golang.org/x/image: Catmull-Rom resampling for
// images and font.Drawer for text.
type RasterRenderer struct{}

func (RasterRenderer) Name() string { return "raster" }

func (RasterRenderer) NewCanvas(width, height int) (Canvas, error) {
	if err := checkCanvasSize(width, height); err != nil {
		return nil, err
	}
	return &rasterCanvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}, nil
}

type rasterCanvas struct {
	img *image.RGBA
}

func (c *rasterCanvas) Fill(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *rasterCanvas) DrawImage(src image.Image, dst image.Rectangle) {
	if dst.Empty() || src.Bounds().Empty() {
		return
	}
	xdraw.CatmullRom.Scale(c.img, dst, src, src.Bounds(), xdraw.Over, nil)
}

func (c *rasterCanvas) DrawText(text string, face font.Face, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func (c *rasterCanvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}
