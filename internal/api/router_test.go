// Local Legends - Location-Based Story Sharing
// Copyright 2026 Local Legends Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/locallegends/locallegends

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/locallegends/locallegends/internal/config"
	"github.com/locallegends/locallegends/internal/database"
)

func setupStaticServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	writeFile("index.html", "<html>local legends</html>")
	writeFile("app.js", "console.log('hi');")

	cfg := &config.Config{
		API:      config.APIConfig{NearbyLimit: 10, MaxDistanceMeters: 1_000_000, MaxContentLength: 5000},
		Security: config.SecurityConfig{CORSOrigins: []string{"*"}, DisableRateLimit: true},
		Server:   config.ServerConfig{StaticDir: dir},
	}
	router := NewRouter(NewHandler(&stubProvider{store: newMemStore()}, cfg), cfg)
	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv, dir
}

func TestStaticServing(t *testing.T) {
	srv, _ := setupStaticServer(t)

	tests := []struct {
		name     string
		path     string
		wantBody string
		wantCC   string
	}{
		{"root serves index", "/", "local legends", "no-cache"},
		{"asset served", "/app.js", "console.log", "public, max-age=86400"},
		{"unknown path falls back to index", "/some/client/route", "local legends", "no-cache"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("failed to read body: %v", err)
			}
			if !strings.Contains(string(body), tt.wantBody) {
				t.Errorf("body %q does not contain %q", body, tt.wantBody)
			}
			if got := resp.Header.Get("Cache-Control"); got != tt.wantCC {
				t.Errorf("Cache-Control = %q, want %q", got, tt.wantCC)
			}
		})
	}
}

func TestStaticTraversalIsContained(t *testing.T) {
	srv, _ := setupStaticServer(t)

	resp, err := http.Get(srv.URL + "/../../etc/passwd")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if strings.Contains(string(body), "root:") {
		t.Fatal("path traversal escaped the static directory")
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := setupStaticServer(t)

	resp, err := http.Get(srv.URL + "/api/health/live")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}
}

func TestHealthEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		provider   *stubProvider
		path       string
		wantStatus int
	}{
		{"live always ok", &stubProvider{}, "/api/health/live", http.StatusOK},
		{"ready when connected", &stubProvider{ready: true, state: database.StateConnected}, "/api/health/ready", http.StatusOK},
		{"not ready before connect", &stubProvider{state: database.StateDisconnected}, "/api/health/ready", http.StatusServiceUnavailable},
		{"not ready after failure", &stubProvider{state: database.StateFailed}, "/api/health/ready", http.StatusServiceUnavailable},
		{"summary always 200", &stubProvider{state: database.StateFailed}, "/api/health", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := setupTestServer(t, tt.provider)
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestHealthSummaryReportsDatabaseState(t *testing.T) {
	srv := setupTestServer(t, &stubProvider{state: database.StateFailed})

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	var body struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "degraded" {
		t.Errorf("status = %q, want \"degraded\"", body.Status)
	}
	if body.Database != "failed" {
		t.Errorf("database = %q, want \"failed\"", body.Database)
	}
}

func TestMetricsExposed(t *testing.T) {
	srv, _ := setupStaticServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("metrics output missing standard collectors")
	}
}
