package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeRunner struct {
	count int
	err   error
	ctx   context.Context
}

func (f *fakeRunner) Run(ctx context.Context) (int, error) {
	f.ctx = ctx
	return f.count, f.err
}

func TestTriggerSuccess(t *testing.T) {
	runner := &fakeRunner{count: 7}
	handler := NewTrigger(runner)

	req := httptest.NewRequest("GET", "/api/cron", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}

	var body struct {
		Success        bool   `json:"success"`
		ItemsProcessed int    `json:"itemsProcessed"`
		Timestamp      string `json:"timestamp"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response body: %v", err)
	}
	if !body.Success {
		t.Error("Expected success true")
	}
	if body.ItemsProcessed != 7 {
		t.Errorf("Expected itemsProcessed 7, got %d", body.ItemsProcessed)
	}
	if body.Timestamp == "" {
		t.Error("Expected a timestamp")
	}
}

func TestTriggerFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("database is down")}
	handler := NewTrigger(runner)

	req := httptest.NewRequest("GET", "/api/cron", nil)
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
	if body.Success {
		t.Error("Expected success false")
	}
	if body.Error != "database is down" {
		t.Errorf("Expected error message in body, got %q", body.Error)
	}
}

func TestTriggerAppliesRunBudget(t *testing.T) {
	runner := &fakeRunner{}
	handler := NewTrigger(runner)

	req := httptest.NewRequest("GET", "/api/cron", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if runner.ctx == nil {
		t.Fatal("Expected pipeline to run")
	}
	if _, ok := runner.ctx.Deadline(); !ok {
		t.Error("Expected run context to carry a deadline")
	}
}
