// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pin

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/disintegration/imaging"
)

// MaxImagePixels bounds the decoded size of any loaded asset.
const MaxImagePixels = 100_000_000

var (
	// ErrUnsupportedFormat is returned for assets that are not JPEG, PNG or GIF.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrImageTooLarge is returned when the image header reports more than
	// MaxImagePixels pixels.
	ErrImageTooLarge = errors.New("image too large")
	// ErrEmptyReference is returned when asked to load "".
	ErrEmptyReference = errors.New("empty image reference")
)

// LocalResolver maps an asset URL to a file on local disk, if it is one.
type LocalResolver interface {
	ResolveLocal(ref string) (path string, ok bool)
}

// Fetcher downloads a remote reference into a scratch file owned by the
// caller.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (path string, err error)
}

// Loader turns image references into decoded bitmaps.
type Loader struct {
	local   LocalResolver
	fetcher Fetcher
}

// NewLoader creates a loader. Either argument may be nil.
func NewLoader(local LocalResolver, fetcher Fetcher) *Loader {
	return &Loader{local: local, fetcher: fetcher}
}

// Load decodes ref. References served from the local asset store are read
// from disk; anything else is fetched into a scratch file that is removed
// before Load returns.
func (l *Loader) Load(ctx context.Context, ref string) (image.Image, error) {
	if ref == "" {
		return nil, ErrEmptyReference
	}

	if l.local != nil {
		if path, ok := l.local.ResolveLocal(ref); ok {
			if _, err := os.Stat(path); err == nil {
				img, err := DecodeFile(path)
				if err != nil {
					return nil, fmt.Errorf("decode local %s: %w", path, err)
				}
				return img, nil
			}
			slog.Debug("local asset missing, fetching instead", "ref", ref, "path", path)
		}
	}

	if l.fetcher == nil {
		return nil, fmt.Errorf("load %s: no fetcher configured", ref)
	}

	scratch, err := l.fetcher.Fetch(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ref, err)
	}
	defer func() {
		if err := os.Remove(scratch); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to remove scratch file", "path", scratch, "error", err)
		}
	}()

	img, err := DecodeFile(scratch)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return img, nil
}

// DecodeFile sniffs and decodes a JPEG, PNG or GIF file. JPEGs honour their
// EXIF orientation.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header: %w", err)
	}
	ctype := http.DetectContentType(head[:n])

	var (
		decodeConfig func(io.Reader) (image.Config, error)
		decode       func(io.Reader) (image.Image, error)
	)
	switch ctype {
	case "image/jpeg":
		decodeConfig = jpeg.DecodeConfig
		decode = func(r io.Reader) (image.Image, error) {
			return imaging.Decode(r, imaging.AutoOrientation(true))
		}
	case "image/png":
		decodeConfig, decode = png.DecodeConfig, png.Decode
	case "image/gif":
		decodeConfig, decode = gif.DecodeConfig, gif.Decode
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ctype)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	cfg, err := decodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ctype, err)
	}
	return img, nil
}
