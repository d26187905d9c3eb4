// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pinsmith/internal/handlers"
	"pinsmith/internal/middleware"
	"pinsmith/internal/pin"
	"pinsmith/internal/storage"
	"pinsmith/internal/store"
)

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func newTestRouter(t *testing.T, opts Options) http.Handler {
	t.Helper()
	dir := t.TempDir()
	assets, err := storage.NewLocal(dir, "http://pins.test/uploads")
	if err != nil {
		t.Fatal(err)
	}
	comp := pin.NewCompositor(pin.Options{
		Renderer:       pin.RasterRenderer{},
		Loader:         pin.NewLoader(assets, nil),
		Assets:         assets,
		FontCandidates: []string{pin.BuiltinGoRegular},
	})
	api := handlers.NewAPI(store.NewMemoryTemplateStore(), comp, store.NewMemoryRenderLog(10))
	if opts.AssetDir == "" {
		opts.AssetDir = dir
	}
	return New(api, opts)
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(t, Options{})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/api/templates", http.StatusOK},
		{"GET", "/api/templates/default", http.StatusOK},
		{"GET", "/api/templates/not-a-uuid", http.StatusBadRequest},
		{"GET", "/api/renders", http.StatusOK},
		{"POST", "/api/render", http.StatusBadRequest},
		{"GET", "/api/render", http.StatusMethodNotAllowed},
		{"GET", "/nowhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, strings.NewReader("")))
			if w.Code != tt.want {
				t.Errorf("got %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestAPIHeaders(t *testing.T) {
	r := newTestRouter(t, Options{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/templates", nil))

	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := w.Header().Get(middleware.RequestIDHeader); got == "" {
		t.Error("missing request id header")
	}
}

func TestUploadsServed(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "2026", "10")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "pin.png"), []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newTestRouter(t, Options{AssetDir: dir})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/uploads/2026/10/pin.png", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "png-bytes" {
		t.Errorf("body = %q", w.Body.String())
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "immutable") {
		t.Errorf("Cache-Control = %q, want immutable", cc)
	}
}

func TestRenderRateLimited(t *testing.T) {
	rl := middleware.NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	r := newTestRouter(t, Options{RenderLimiter: rl})

	codes := make([]int, 2)
	for i := range codes {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/render", strings.NewReader(`{}`))
		req.RemoteAddr = "203.0.113.7:4000"
		r.ServeHTTP(w, req)
		codes[i] = w.Code
	}
	if codes[0] != http.StatusBadRequest {
		t.Errorf("first request: got %d, want 400", codes[0])
	}
	if codes[1] != http.StatusTooManyRequests {
		t.Errorf("second request: got %d, want 429", codes[1])
	}
}

func TestUploadsServedAtConfiguredPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pin.png"), []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newTestRouter(t, Options{AssetDir: dir, AssetPath: "/static/pins/"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/static/pins/pin.png", nil))
	if w.Code != http.StatusOK || w.Body.String() != "png-bytes" {
		t.Errorf("configured path: status %d, body %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/uploads/pin.png", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("default path still served: status %d", w.Code)
	}
}
