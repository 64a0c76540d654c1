package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/sectorviz/sectorviz/pkg/pipeline"
)

const sampleListing = `{
  "name": "preview",
  "sides": [
    {
      "tracks": [
        {
          "elements": [
            {"kind": "sector_header", "start": 0.0, "end": 0.05},
            {"kind": "sector_data", "start": 0.05, "end": 0.5},
            {"kind": "sector_data", "bad": true, "start": 0.5, "end": 0.7}
          ],
          "masks": [
            {"kind": "error", "start": 0.55, "end": 0.6}
          ]
        }
      ]
    }
  ]
}`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disk.json")
	if err := os.WriteFile(path, []byte(sampleListing), 0644); err != nil {
		t.Fatalf("writing listing: %v", err)
	}

	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, logger)
	srv := New(Config{ListingPath: path}, runner, logger)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, body
}

func TestHealthz(t *testing.T) {
	ts := testServer(t)
	resp, body := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var payload map[string]string
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload["status"] != "ok" {
		t.Errorf("status = %q, want ok", payload["status"])
	}
}

func TestRenderSVG(t *testing.T) {
	ts := testServer(t)
	resp, body := get(t, ts, "/render?format=svg&width=200&height=200")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.Contains(body, []byte("<svg")) {
		t.Error("body is not an SVG document")
	}
	if resp.Header.Get("X-Listing-Hash") == "" {
		t.Error("listing hash header missing")
	}
}

func TestRenderPNG(t *testing.T) {
	ts := testServer(t)
	resp, body := get(t, ts, "/render?width=120&height=120&supersample=1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(body, []byte{0x89, 'P', 'N', 'G'}) {
		t.Error("body is not a PNG image")
	}
}

func TestRenderBadRequests(t *testing.T) {
	ts := testServer(t)
	tests := []struct {
		name string
		path string
		code string
	}{
		{"bad format", "/render?format=pdf", "INVALID_FORMAT"},
		{"bad side", "/render?side=5", "INVALID_INPUT"},
		{"side beyond listing", "/render?side=1&format=svg", "INVALID_INPUT"},
		{"bad width", "/render?width=abc", "INVALID_INPUT"},
		{"bad supersample", "/render?supersample=7", "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400, body %s", resp.StatusCode, body)
			}
			var payload map[string]string
			if err := json.Unmarshal(body, &payload); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if payload["code"] != tt.code {
				t.Errorf("code = %q, want %q", payload["code"], tt.code)
			}
		})
	}
}

func TestRenderMissingListing(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(Config{ListingPath: "/nonexistent/disk.json"}, pipeline.NewRunner(nil, logger), logger)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, _ := get(t, ts, "/render?format=svg")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
