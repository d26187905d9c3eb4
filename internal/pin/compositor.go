// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pin composes template-driven social images: a background, placed
// images, QR codes and wrapped text rendered onto a fixed-size canvas.
package pin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"pinsmith/internal/models"
)

// ImageLoader resolves an image reference to a decoded bitmap.
type ImageLoader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// AssetWriter persists an encoded image and reports where it is served.
type AssetWriter interface {
	Write(ctx context.Context, data []byte, filename string) (path, url string, err error)
}

// ElementKind identifies the layer an element belongs to.
type ElementKind string

const (
	KindBackground ElementKind = "background"
	KindImage      ElementKind = "image"
	KindQR         ElementKind = "qr"
	KindText       ElementKind = "text"
)

// ElementStatus is the outcome of painting one element.
type ElementStatus string

const (
	StatusDrawn   ElementStatus = "drawn"
	StatusSkipped ElementStatus = "skipped"
	StatusFailed  ElementStatus = "failed"
)

// ElementResult reports what happened to one element. Index is the
// element's position within its own list.
type ElementResult struct {
	Kind   ElementKind   `json:"kind"`
	Index  int           `json:"index"`
	Status ElementStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
	Err    error         `json:"-"`
}

// Result describes a finished render.
type Result struct {
	URL      string          `json:"image_url"`
	Path     string          `json:"-"`
	Filename string          `json:"filename"`
	Mode     Mode            `json:"mode"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Font     string          `json:"font,omitempty"`
	Elements []ElementResult `json:"elements"`
}

// Failed returns the elements that failed to paint.
func (r *Result) Failed() []ElementResult {
	var out []ElementResult
	for _, e := range r.Elements {
		if e.Status == StatusFailed {
			out = append(out, e)
		}
	}
	return out
}

// stage names the render step, used in errors and debug logs.
type stage string

const (
	stageInit       stage = "init"
	stageBackground stage = "background"
	stageImages     stage = "images"
	stageQR         stage = "qr"
	stageText       stage = "text"
	stageEncode     stage = "encode"
	stageWrite      stage = "write"
)

// Options configures a Compositor.
type Options struct {
	Renderer       Renderer
	Loader         ImageLoader
	Assets         AssetWriter
	FontCandidates []string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Compositor renders templates. It holds no per-render state and is safe
// for concurrent use.
type Compositor struct {
	renderer Renderer
	loader   ImageLoader
	assets   AssetWriter
	fonts    []string
	now      func() time.Time
}

// NewCompositor creates a compositor from opts.
func NewCompositor(opts Options) *Compositor {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Compositor{
		renderer: opts.Renderer,
		loader:   opts.Loader,
		assets:   opts.Assets,
		fonts:    opts.FontCandidates,
		now:      now,
	}
}

// Render paints t and writes the PNG through the asset writer. Elements
// that cannot be painted are reported in Result.Elements and never abort
// the render; canvas, encode and write failures do.
func (c *Compositor) Render(ctx context.Context, t *models.Template, mode Mode) (*Result, error) {
	if c.renderer == nil {
		return nil, fmt.Errorf("%s: %w", stageInit, ErrNoBackend)
	}
	if c.assets == nil {
		return nil, fmt.Errorf("%s: no asset writer configured", stageInit)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", stageInit, err)
	}

	log := slog.With("backend", c.renderer.Name(), "mode", mode)

	canvas, err := c.renderer.NewCanvas(t.Width, t.Height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", stageInit, err)
	}
	bg, ok := ParseHexColor(t.BackgroundColor)
	if !ok {
		log.Debug("malformed background color", "color", t.BackgroundColor)
	}
	canvas.Fill(bg)

	res := &Result{Mode: mode, Width: t.Width, Height: t.Height}

	log.Debug("render stage", "stage", stageBackground)
	if t.BackgroundImage != "" {
		res.Elements = append(res.Elements, c.paintBackground(ctx, canvas, t))
	}

	log.Debug("render stage", "stage", stageImages, "count", len(t.ImageElements))
	for i, e := range t.ImageElements {
		res.Elements = append(res.Elements, c.paintImage(ctx, canvas, t, i, e))
	}

	log.Debug("render stage", "stage", stageQR, "count", len(t.QRElements))
	for i, e := range t.QRElements {
		res.Elements = append(res.Elements, c.paintQR(canvas, t, i, e))
	}

	log.Debug("render stage", "stage", stageText, "count", len(t.TextElements))
	var f *Font
	if len(t.TextElements) > 0 {
		f = ResolveFont(c.fonts)
		if f != nil {
			res.Font = f.Path
		}
	}
	for i, e := range t.TextElements {
		res.Elements = append(res.Elements, c.paintText(canvas, t, i, e, f))
	}

	var buf bytes.Buffer
	if err := canvas.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", stageEncode, err)
	}

	res.Filename = OutputFilename(mode, c.now())
	res.Path, res.URL, err = c.assets.Write(ctx, buf.Bytes(), res.Filename)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", stageWrite, res.Filename, err)
	}

	log.Info("pin rendered", "url", res.URL, "elements", len(res.Elements), "failed", len(res.Failed()))
	return res, nil
}

func (c *Compositor) paintBackground(ctx context.Context, canvas Canvas, t *models.Template) ElementResult {
	r := ElementResult{Kind: KindBackground}
	img, err := c.load(ctx, t.BackgroundImage)
	if err != nil {
		slog.Warn("background image failed", "ref", t.BackgroundImage, "error", err)
		return r.fail(err)
	}
	b := img.Bounds()
	canvas.DrawImage(img, CoverRect(b.Dx(), b.Dy(), t.Width, t.Height).Pixels())
	r.Status = StatusDrawn
	return r
}

func (c *Compositor) paintImage(ctx context.Context, canvas Canvas, t *models.Template, i int, e models.ImageElement) ElementResult {
	r := ElementResult{Kind: KindImage, Index: i}
	ref := e.Source()
	if ref == "" {
		return r.skip("no image reference")
	}
	dst := ToPixelRect(e.PositionX, e.PositionY, e.Width, e.Height, t.Width, t.Height).Pixels()
	if dst.Empty() {
		return r.skip("zero area")
	}
	img, err := c.load(ctx, ref)
	if err != nil {
		slog.Warn("image element failed", "index", i, "ref", ref, "error", err)
		return r.fail(err)
	}
	canvas.DrawImage(img, dst)
	r.Status = StatusDrawn
	return r
}

func (c *Compositor) paintQR(canvas Canvas, t *models.Template, i int, e models.QRElement) ElementResult {
	r := ElementResult{Kind: KindQR, Index: i}
	if e.Content == "" {
		return r.skip("no content")
	}
	dst := QRRect(e.PositionX, e.PositionY, e.Size, t.Width, t.Height).Pixels()
	if dst.Empty() {
		return r.skip("zero area")
	}
	img, err := qrImage(e, dst.Dx())
	if err != nil {
		slog.Warn("qr element failed", "index", i, "error", err)
		return r.fail(err)
	}
	canvas.DrawImage(img, dst)
	r.Status = StatusDrawn
	return r
}

func (c *Compositor) paintText(canvas Canvas, t *models.Template, i int, e models.TextElement, f *Font) ElementResult {
	r := ElementResult{Kind: KindText, Index: i}
	if e.Text == "" {
		return r.skip("empty text")
	}
	col, ok := ParseHexColor(e.FontColor)
	if !ok {
		slog.Debug("malformed font color", "index", i, "color", e.FontColor)
	}

	m := NewTextMetrics(f, e.FontSize)
	defer m.Close()

	for _, line := range LayoutText(e, t.Width, t.Height, m) {
		x := toPixel(line.X)
		if face := m.Face(); face != nil {
			canvas.DrawText(line.Text, face, x, toPixel(line.Y), col)
			continue
		}
		// The bitmap face is positioned by its top edge, one font size
		// above the baseline.
		top := toPixel(line.Y - float64(e.FontSize))
		canvas.DrawText(line.Text, fallbackFace, x, top+fallbackFace.Ascent, col)
	}
	r.Status = StatusDrawn
	return r
}

func (c *Compositor) load(ctx context.Context, ref string) (image.Image, error) {
	if c.loader == nil {
		return nil, errors.New("no image loader configured")
	}
	return c.loader.Load(ctx, ref)
}

func (r ElementResult) skip(reason string) ElementResult {
	r.Status = StatusSkipped
	r.Reason = reason
	return r
}

func (r ElementResult) fail(err error) ElementResult {
	r.Status = StatusFailed
	r.Reason = err.Error()
	r.Err = err
	return r
}
