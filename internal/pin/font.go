// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pin

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// BuiltinGoRegular names the Go Regular font compiled into the binary. It
// may appear anywhere in a candidate list and is always usable.
const BuiltinGoRegular = "builtin:goregular"

// DefaultFontCandidates is the lookup order used when none is configured.
var DefaultFontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/System/Library/Fonts/Helvetica.ttc",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	BuiltinGoRegular,
}

// sampleText and sampleSize are used to check that a parsed font can
// actually produce glyph metrics.
const (
	sampleText = "Test"
	sampleSize = 12
)

var errEmptySample = errors.New("font produced an empty bounding box")

// Font is a parsed, verified font file. A nil *Font means "no font": text
// is measured with the fixed-width heuristic and drawn with the bitmap face.
type Font struct {
	Path string
	otf  *opentype.Font
}

// ResolveFont returns the first candidate that exists, parses and yields
// glyph metrics, or nil when none does.
func ResolveFont(candidates []string) *Font {
	for _, path := range candidates {
		f, err := openFont(path)
		if err != nil {
			slog.Debug("font candidate rejected", "path", path, "error", err)
			continue
		}
		slog.Debug("font resolved", "path", path)
		return f
	}
	slog.Warn("no usable font found, falling back to bitmap glyphs", "candidates", len(candidates))
	return nil
}

// openFont loads and verifies a single candidate.
func openFont(path string) (*Font, error) {
	var data []byte
	if path == BuiltinGoRegular {
		data = goregular.TTF
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("stat font: %w", err)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		data = b
	}

	otf, err := parseFont(data)
	if err != nil {
		return nil, err
	}

	f := &Font{Path: path, otf: otf}
	if err := f.checkUsable(); err != nil {
		return nil, err
	}
	return f, nil
}

// parseFont accepts single fonts and collections; a collection yields its
// first face.
func parseFont(data []byte) (*opentype.Font, error) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	if coll.NumFonts() == 0 {
		return nil, fmt.Errorf("parse font: empty collection")
	}
	otf, err := coll.Font(0)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return otf, nil
}

// checkUsable measures a short string to make sure the font is usable.
func (f *Font) checkUsable() error {
	face, err := f.Face(sampleSize)
	if err != nil {
		return err
	}
	defer face.Close()

	bounds, _ := font.BoundString(face, sampleText)
	if bounds.Max.X <= bounds.Min.X {
		return errEmptySample
	}
	return nil
}

// Face returns a face at size pixels (72 DPI, so points equal pixels).
func (f *Font) Face(size int) (font.Face, error) {
	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face %s@%d: %w", f.Path, size, err)
	}
	return face, nil
}
