package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/iho/storeledger/internal/adapter/http/dto"
	"github.com/iho/storeledger/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/entities?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/entities?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestParseRangeQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/financials?from=2024-01-01", nil)
	r, err := parseRangeQuery(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.From == nil || r.To != nil {
		t.Fatalf("expected only from to be set, got %+v", r)
	}

	req = httptest.NewRequest(http.MethodGet, "/financials?to=31-01-2024", nil)
	if _, err := parseRangeQuery(req); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"entity not found", domain.ErrEntityNotFound, http.StatusNotFound},
		{"record not found", domain.ErrRecordNotFound, http.StatusNotFound},
		{"blocked", domain.ErrEntityBlocked, http.StatusConflict},
		{"kind mismatch", domain.ErrEntityKindMismatch, http.StatusUnprocessableEntity},
		{"invalid amount", fmt.Errorf("post: %w", domain.ErrInvalidAmount), http.StatusBadRequest},
		{"invalid date", domain.ErrInvalidDate, http.StatusBadRequest},
		{"missing entity", domain.ErrMissingEntity, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteRequestErrorListsFields(t *testing.T) {
	rr := httptest.NewRecorder()

	req := dto.CreateEntityRequest{Name: "x"}
	writeRequestError(rr, "invalid request", req.Validate())

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if len(resp.Fields) != 1 || resp.Fields[0].Field != "kind" {
		t.Fatalf("expected kind field error, got %+v", resp)
	}
}
