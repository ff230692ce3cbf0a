package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/feb027/melon-ai-sub001/internal/config"
	"github.com/feb027/melon-ai-sub001/internal/logger"
	"github.com/feb027/melon-ai-sub001/internal/storage"
	"github.com/feb027/melon-ai-sub001/internal/storage/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Port: 8080,
		Blob: config.BlobConfig{
			Mode: config.BlobModeLocal,
			S3:   config.S3Config{PresignTTLSeconds: 3600},
		},
		PublicBaseURL: "http://localhost:8080",
	}

	log := logger.New("info", "text")
	log.SetOutput(io.Discard)

	srv, err := New(cfg, log)
	if err != nil {
		t.Fatalf("server init failed: %v", err)
	}
	return srv
}

func seedAnalyses(t *testing.T, srv *Server, n int) {
	t.Helper()

	mem, ok := srv.storage.(*memory.MemoryStorage)
	if !ok {
		t.Fatalf("expected in-memory storage, got %T", srv.storage)
	}

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	confidence := 90.0
	sweetness := 8.0
	for i := 0; i < n; i++ {
		err := mem.InsertAnalysis(context.Background(), storage.AnalysisRecord{
			CreatedAt:      base.Add(-time.Duration(i) * time.Hour),
			MaturityStatus: storage.MaturityMature,
			Confidence:     &confidence,
			SweetnessLevel: &sweetness,
		})
		if err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", resp["status"])
	}
	if resp["blob_mode"] != "local" {
		t.Errorf("expected blob_mode=local, got %s", resp["blob_mode"])
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestReportPipelineThroughServer(t *testing.T) {
	srv := newTestServer(t)
	seedAnalyses(t, srv, 12)

	body := `{"startDate":"2026-08-01","endDate":"2026-08-31"}`
	req := httptest.NewRequest(http.MethodPost, "/reports/analytics", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			DownloadURL string `json:"downloadUrl"`
			FileName    string `json:"fileName"`
			ExpiresIn   int    `json:"expiresIn"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if !resp.Success || resp.Data.ExpiresIn != 3600 {
		t.Fatalf("unexpected response payload: %+v", resp)
	}

	// The local-mode link must resolve through the server itself
	path := strings.TrimPrefix(resp.Data.DownloadURL, "http://localhost:8080")
	dlReq := httptest.NewRequest(http.MethodGet, path, nil)
	dlRec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(dlRec, dlReq)

	if dlRec.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", dlRec.Code)
	}
	if !strings.HasPrefix(dlRec.Body.String(), "%PDF") {
		t.Fatal("download: expected PDF payload")
	}
}

func TestReportPipelineNoData(t *testing.T) {
	srv := newTestServer(t)

	body := `{"startDate":"2026-08-01","endDate":"2026-08-31"}`
	req := httptest.NewRequest(http.MethodPost, "/reports/analytics", strings.NewReader(body))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Success || resp.Error.Code != "NO_DATA" {
		t.Fatalf("unexpected error payload: %+v", resp)
	}
}
