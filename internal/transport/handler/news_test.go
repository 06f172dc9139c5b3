package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ainews/internal/model"
)

type fakeReader struct {
	records []model.NewsRecord
	err     error

	latestLimit int
	byDateDay   time.Time
	byDateUsed  bool
}

func (f *fakeReader) Latest(ctx context.Context, limit int) ([]model.NewsRecord, error) {
	f.latestLimit = limit
	return f.records, f.err
}

func (f *fakeReader) ByDate(ctx context.Context, day time.Time) ([]model.NewsRecord, error) {
	f.byDateUsed = true
	f.byDateDay = day
	return f.records, f.err
}

func sampleRecords() []model.NewsRecord {
	summary := "- 要点一"
	return []model.NewsRecord{
		{
			ID:          "id-1",
			Title:       "New model release",
			URL:         "https://example.com/1",
			Source:      "OpenAI Blog",
			Summary:     &summary,
			PublishedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:          "id-2",
			Title:       "Benchmark results",
			URL:         "https://example.com/2",
			Source:      "Hacker News",
			PublishedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

type newsBody struct {
	Success   bool               `json:"success"`
	News      []model.NewsRecord `json:"news"`
	Timestamp string             `json:"timestamp"`
}

func TestNewsDefaultLimit(t *testing.T) {
	reader := &fakeReader{records: sampleRecords()}
	handler := NewNews(reader)

	req := httptest.NewRequest("GET", "/api/news", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if reader.latestLimit != 50 {
		t.Errorf("Expected default limit 50, got %d", reader.latestLimit)
	}
	if reader.byDateUsed {
		t.Error("Expected Latest, not ByDate")
	}

	var body newsBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response body: %v", err)
	}
	if !body.Success {
		t.Error("Expected success true")
	}
	if len(body.News) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(body.News))
	}
	if body.News[0].ID != "id-1" || body.News[1].ID != "id-2" {
		t.Error("Expected records in store order")
	}
	if body.News[1].Summary != nil {
		t.Error("Expected missing summary to stay null")
	}
}

func TestNewsCustomLimit(t *testing.T) {
	reader := &fakeReader{}
	handler := NewNews(reader)

	req := httptest.NewRequest("GET", "/api/news?limit=5", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if reader.latestLimit != 5 {
		t.Errorf("Expected limit 5, got %d", reader.latestLimit)
	}
}

func TestNewsInvalidLimitFallsBack(t *testing.T) {
	tests := []string{"abc", "-3", "0"}
	for _, limit := range tests {
		reader := &fakeReader{}
		handler := NewNews(reader)

		req := httptest.NewRequest("GET", "/api/news?limit="+limit, nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if reader.latestLimit != 50 {
			t.Errorf("limit=%q: expected fallback to 50, got %d", limit, reader.latestLimit)
		}
	}
}

func TestNewsByDate(t *testing.T) {
	reader := &fakeReader{records: sampleRecords()}
	handler := NewNews(reader)

	req := httptest.NewRequest("GET", "/api/news?date=2025-06-01", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if !reader.byDateUsed {
		t.Fatal("Expected ByDate to be used")
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !reader.byDateDay.Equal(want) {
		t.Errorf("Expected day %v, got %v", want, reader.byDateDay)
	}
}

func TestNewsRejectsMalformedDate(t *testing.T) {
	reader := &fakeReader{}
	handler := NewNews(reader)

	req := httptest.NewRequest("GET", "/api/news?date=06/01/2025", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
	if reader.byDateUsed {
		t.Error("Expected no store call for malformed date")
	}
}

func TestNewsEmptyStoreReturnsEmptyList(t *testing.T) {
	reader := &fakeReader{}
	handler := NewNews(reader)

	req := httptest.NewRequest("GET", "/api/news", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var body newsBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response body: %v", err)
	}
	if body.News == nil {
		t.Error("Expected empty list, not null")
	}
	if len(body.News) != 0 {
		t.Errorf("Expected 0 records, got %d", len(body.News))
	}
}

func TestNewsStoreError(t *testing.T) {
	reader := &fakeReader{err: errors.New("connection refused")}
	handler := NewNews(reader)

	req := httptest.NewRequest("GET", "/api/news", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rr.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response body: %v", err)
	}
	if body.Success || body.Error != "connection refused" {
		t.Errorf("Expected failure body, got %+v", body)
	}
}
