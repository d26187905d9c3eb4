package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestLoggerPassesThroughStatus(t *testing.T) {
	tests := []struct {
		name   string
		inner  http.HandlerFunc
		status int
		body   string
	}{
		{"explicit 201", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) }, http.StatusCreated, ""},
		{"explicit 404", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }, http.StatusNotFound, ""},
		{"implicit 200", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("hello")) }, http.StatusOK, "hello"},
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }, http.StatusBadGateway, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Logger(tt.inner).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/render", nil))
			if rr.Code != tt.status {
				t.Errorf("status: got %d, want %d", rr.Code, tt.status)
			}
			if rr.Body.String() != tt.body {
				t.Errorf("body: got %q, want %q", rr.Body.String(), tt.body)
			}
		})
	}
}

func TestResponseWriterCapture(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}
	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusInternalServerError)
	rw.Write([]byte("abc"))
	rw.Write([]byte("de"))

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("statusCode: got %d, want first status 404", rw.statusCode)
	}
	if rw.bytes != 5 {
		t.Errorf("bytes: got %d, want 5", rw.bytes)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	t.Run("assigns a new id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if _, err := uuid.Parse(seen); err != nil {
			t.Fatalf("context id %q is not a UUID", seen)
		}
		if rr.Header().Get(RequestIDHeader) != seen {
			t.Errorf("header %q does not match context %q", rr.Header().Get(RequestIDHeader), seen)
		}
	})

	t.Run("keeps a valid incoming id", func(t *testing.T) {
		incoming := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, incoming)
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if seen != incoming {
			t.Errorf("got %q, want %q", seen, incoming)
		}
	})

	t.Run("replaces a malformed incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "<script>")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if seen == "<script>" {
			t.Error("malformed id was accepted")
		}
	})
}
