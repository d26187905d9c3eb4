// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pin

import (
	"fmt"
	"image"
	"image/color"

	"github.com/skip2/go-qrcode"

	"pinsmith/internal/models"
)

// QRRect places a square QR element: its side is sizePct of the canvas
// width and it is centred on the position.
func QRRect(posXPct, posYPct, sizePct float64, canvasW, canvasH int) Rect {
	side := sizePct / 100 * float64(canvasW)
	return Rect{
		X: posXPct/100*float64(canvasW) - side/2,
		Y: posYPct/100*float64(canvasH) - side/2,
		W: side,
		H: side,
	}
}

// qrImage encodes e.Content at medium error correction. side is a hint; the
// returned bitmap is stretched into place by the canvas.
func qrImage(e models.QRElement, side int) (image.Image, error) {
	q, err := qrcode.New(e.Content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	q.ForegroundColor = qrColor(e.Foreground, color.RGBA{A: 0xff})
	q.BackgroundColor = qrColor(e.Background, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	return q.Image(side), nil
}

func qrColor(hex string, def color.RGBA) color.RGBA {
	if hex == "" {
		return def
	}
	c, _ := ParseHexColor(hex)
	return c
}
