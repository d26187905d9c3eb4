// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// MaxFetchBytes bounds the body size of a remote asset.
const MaxFetchBytes = 25 << 20

var (
	// ErrFetchStatus is returned when the remote server answers non-2xx.
	ErrFetchStatus = errors.New("unexpected fetch status")
	// ErrFetchTooLarge is returned when a body exceeds the size limit.
	ErrFetchTooLarge = errors.New("remote asset too large")
)

// HTTPFetcher downloads http and https references to temporary files.
type HTTPFetcher struct {
	client   *http.Client
	tempDir  string
	maxBytes int64
}

// NewHTTPFetcher creates a fetcher whose requests time out after timeout.
// Scratch files go to the system temp directory.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: MaxFetchBytes,
	}
}

// Fetch downloads ref and returns the path of the scratch file. The caller
// removes it. Nothing is left on disk when Fetch fails.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %d", ErrFetchStatus, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(f.tempDir, "pinsmith-fetch-*")
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}

	n, err := io.Copy(tmp, io.LimitReader(resp.Body, f.maxBytes+1))
	if err == nil && n > f.maxBytes {
		err = ErrFetchTooLarge
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("download: %w", err)
	}
	return tmp.Name(), nil
}
