package http_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	herohttp "github.com/sagarc03/herostore/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyCORS(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := herohttp.LegacyCORS(handler)

	tests := []struct {
		method       string
		allowHeaders string
	}{
		{http.MethodGet, ""},
		{http.MethodPost, ""},
		{http.MethodPut, ""},
		{http.MethodDelete, "Content-Type"},
		{http.MethodOptions, "Content-Type"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/heroes", nil)
			rec := httptest.NewRecorder()

			wrapped.ServeHTTP(rec, req)

			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, tt.allowHeaders, rec.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	req := httptest.NewRequest(http.MethodGet, "/heroes/7", nil)
	rec := httptest.NewRecorder()
	herohttp.RequestLogger(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)

	line := buf.String()
	assert.Contains(t, line, "method=GET")
	assert.Contains(t, line, "path=/heroes/7")
	assert.Contains(t, line, "status=418")
	assert.Contains(t, line, "bytes=15")
}

func TestMaxBodySize(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name  string
		limit int64
		body  string
		want  int
	}{
		{"under limit", 10, "12345", http.StatusOK},
		{"over limit", 4, "12345", http.StatusRequestEntityTooLarge},
		{"disabled", 0, strings.Repeat("x", 1024), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/heroes", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			herohttp.MaxBodySize(tt.limit)(handler).ServeHTTP(rec, req)

			require.Equal(t, tt.want, rec.Code)
		})
	}
}
