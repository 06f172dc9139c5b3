package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ainews/internal/application"
	"ainews/internal/infrastructure"
	"ainews/internal/model"
	"ainews/internal/repository"
	"ainews/internal/transport/handler"
)

type stubPipeline struct{ count int }

func (s *stubPipeline) Run(ctx context.Context) (int, error) { return s.count, nil }

type stubReader struct{}

func (s *stubReader) Latest(ctx context.Context, limit int) ([]model.NewsRecord, error) {
	return nil, nil
}

func (s *stubReader) ByDate(ctx context.Context, day time.Time) ([]model.NewsRecord, error) {
	return nil, nil
}

type stubStatser struct{}

func (s *stubStatser) Stats(ctx context.Context) (*repository.BlobStats, error) {
	return nil, errors.New("no storage in tests")
}

func testRouter(cronSecret string) http.Handler {
	app := &application.Application{
		Config:         &infrastructure.Config{CronSecret: cronSecret},
		TriggerHandler: handler.NewTrigger(&stubPipeline{count: 3}),
		NewsHandler:    handler.NewNews(&stubReader{}),
		StatusHandler:  handler.NewStatus(&stubStatser{}, "test"),
	}
	return NewRouter(app)
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter("test-secret")

	req := httptest.NewRequest("GET", "/api/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("Expected status healthy, got %q", body["status"])
	}
}

func TestCronRequiresSecret(t *testing.T) {
	router := testRouter("test-secret")

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong token", "Bearer wrong", http.StatusUnauthorized},
		{"valid token", "Bearer test-secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/cron", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rr.Code)
			}
		})
	}
}

func TestManualTriggerAuth(t *testing.T) {
	router := testRouter("test-secret")

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"no header is allowed", "", http.StatusOK},
		{"valid token", "Bearer test-secret", http.StatusOK},
		{"wrong token", "Bearer wrong", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/fetch-news", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rr.Code)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	router := testRouter("test-secret")

	req := httptest.NewRequest("OPTIONS", "/api/fetch-news", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard origin, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Headers"); got != "Authorization, Content-Type" {
		t.Errorf("Unexpected allowed headers %q", got)
	}
}

func TestNewsEndpoint(t *testing.T) {
	router := testRouter("test-secret")

	req := httptest.NewRequest("GET", "/api/news", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected CORS header on GET, got %q", got)
	}
}

func TestStatusEndpoint(t *testing.T) {
	router := testRouter("test-secret")

	req := httptest.NewRequest("GET", "/api/status", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
	if body["storage_error"] == "" {
		t.Error("Expected storage error to surface in status body")
	}
}

func TestUnknownMethodRejected(t *testing.T) {
	router := testRouter("test-secret")

	req := httptest.NewRequest("DELETE", "/api/news", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rr.Code)
	}
}
