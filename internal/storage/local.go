// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Local stores pins in a directory tree served under a base URL.
type Local struct {
	root    string
	baseURL string
	now     func() time.Time
}

// NewLocal creates the root directory if needed. baseURL is the public URL
// that maps onto root.
func NewLocal(root, baseURL string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve asset dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &Local{
		root:    abs,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}, nil
}

// Root returns the absolute asset directory.
func (l *Local) Root() string {
	return l.root
}

// Write stores data as root/YYYY/MM/filename. The file is written to a
// temporary name in the same directory and renamed into place.
func (l *Local) Write(ctx context.Context, data []byte, filename string) (string, string, error) {
	if err := checkFilename(filename); err != nil {
		return "", "", err
	}
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	sub := l.now().Format("2006/01")
	dir := filepath.Join(l.root, filepath.FromSlash(sub))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".pin-*.tmp")
	if err != nil {
		return "", "", fmt.Errorf("create temp file: %w", err)
	}
	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0o644)
	}
	path := filepath.Join(dir, filename)
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, l.baseURL + "/" + sub + "/" + filename, nil
}

// ResolveLocal maps a URL under the base URL to a path inside root. URLs
// elsewhere, or that would escape root, are not local.
func (l *Local) ResolveLocal(ref string) (string, bool) {
	prefix := l.baseURL + "/"
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	rel := strings.TrimPrefix(ref, prefix)
	if i := strings.IndexAny(rel, "?#"); i >= 0 {
		rel = rel[:i]
	}
	rel, err := url.PathUnescape(rel)
	if err != nil || rel == "" {
		return "", false
	}

	path := filepath.Join(l.root, filepath.FromSlash(rel))
	within, err := filepath.Rel(l.root, path)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", false
	}
	return path, true
}

// checkFilename rejects names that are not a single path element.
func checkFilename(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid asset filename %q", name)
	}
	return nil
}
