package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestServer_Handler(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>home</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}

	ts := httptest.NewServer(New(dir, "", 0, nil).Handler())
	defer ts.Close()

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/", http.StatusOK, "<h1>home</h1>"},
		{"/missing.html", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if got := resp.Header.Get("Cache-Control"); got != "no-store, no-cache, must-revalidate" {
				t.Errorf("unexpected Cache-Control %q", got)
			}
			if got := resp.Header.Get("Expires"); got != "0" {
				t.Errorf("unexpected Expires %q", got)
			}
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.wantBody {
					t.Errorf("unexpected body %q", body)
				}
			}
		})
	}
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(t.TempDir(), "127.0.0.1", 0, nil).Serve(ctx, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNoCache_SurvivesHandlerHeaderCleanup(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  int
	}{
		{"error response", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Del("Cache-Control")
			w.Header().Del("Expires")
			http.Error(w, "gone", http.StatusNotFound)
		}, http.StatusNotFound},
		{"implicit ok", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "body")
		}, http.StatusOK},
		{"explicit header then write", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			_, _ = io.WriteString(w, "body")
		}, http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NoCache(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
			if got := rec.Header().Get("Cache-Control"); got != "no-store, no-cache, must-revalidate" {
				t.Errorf("unexpected Cache-Control %q", got)
			}
			if got := rec.Header().Get("Expires"); got != "0" {
				t.Errorf("unexpected Expires %q", got)
			}
		})
	}
}
