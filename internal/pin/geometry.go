// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pin

import (
	"image"
	"math"
)

// Rect is an element box in canvas pixels before rounding. X and Y are
// the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// CenterX returns the horizontal anchor of the box.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical anchor of the box.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Pixels converts the box to integer pixel bounds. Each edge is rounded to
// the nearest pixel on its own, so adjacent boxes share edges and a box
// that covers the canvas in floating point also covers it in pixels.
func (r Rect) Pixels() image.Rectangle {
	return image.Rect(toPixel(r.X), toPixel(r.Y), toPixel(r.X+r.W), toPixel(r.Y+r.H))
}

// ToPixelRect maps percentage placement to a pixel box. The position is
// the centre of the box on both axes.
func ToPixelRect(posXPct, posYPct, widthPct, heightPct float64, canvasW, canvasH int) Rect {
	w := widthPct / 100 * float64(canvasW)
	h := heightPct / 100 * float64(canvasH)
	return Rect{
		X: posXPct/100*float64(canvasW) - w/2,
		Y: posYPct/100*float64(canvasH) - h/2,
		W: w,
		H: h,
	}
}

// CoverFit returns the uniform scale that makes a srcW×srcH image cover a
// dstW×dstH box, and the offsets that centre the scaled image in the box.
// Offsets are negative on the axis that overflows and gets cropped.
func CoverFit(srcW, srcH, dstW, dstH int) (scale, offsetX, offsetY float64) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0, 0
	}
	scale = math.Max(float64(dstW)/float64(srcW), float64(dstH)/float64(srcH))
	offsetX = (float64(dstW) - float64(srcW)*scale) / 2
	offsetY = (float64(dstH) - float64(srcH)*scale) / 2
	return scale, offsetX, offsetY
}

// CoverRect is CoverFit expressed as the destination box of the scaled image.
func CoverRect(srcW, srcH, dstW, dstH int) Rect {
	scale, ox, oy := CoverFit(srcW, srcH, dstW, dstH)
	return Rect{X: ox, Y: oy, W: float64(srcW) * scale, H: float64(srcH) * scale}
}

// toPixel is the one float-to-pixel conversion used for drawing: round to
// nearest, halves away from zero.
func toPixel(v float64) int {
	return int(math.Round(v))
}
