package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"investai/pkg/investai"
)

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusTeapot, map[string]int{"n": 7})

	if rr.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type, got %s", ct)
	}
	var body map[string]int
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["n"] != 7 {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, http.StatusBadRequest, "boom")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["error"] != "boom" {
		t.Errorf("unexpected error body: %v", body)
	}
}

func TestWriteCoreErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{investai.NewError(investai.ErrCodeValidation, "bad"), http.StatusBadRequest},
		{investai.NewError(investai.ErrCodeInvalidInput, "bad"), http.StatusBadRequest},
		{investai.NewError(investai.ErrCodeNotFound, "missing"), http.StatusNotFound},
		{investai.NewError(investai.ErrCodeDuplicate, "dup"), http.StatusConflict},
		{investai.NewError(investai.ErrCodeDatabase, "db"), http.StatusInternalServerError},
		{investai.NewError(investai.ErrCodeInternal, "oops"), http.StatusInternalServerError},
		{&investai.InvalidHoldingError{Index: 0, Field: "asset_type", Reason: "bad"}, http.StatusUnprocessableEntity},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rr := httptest.NewRecorder()
		writeCoreError(rr, tc.err)
		if rr.Code != tc.want {
			t.Errorf("error %v: expected %d, got %d", tc.err, tc.want, rr.Code)
		}
	}
}

func TestMapErrorCodeToHTTPStatusUnknownCode(t *testing.T) {
	if got := mapErrorCodeToHTTPStatus(investai.ErrorCode("WEIRD")); got != http.StatusInternalServerError {
		t.Errorf("expected 500 fallback, got %d", got)
	}
}
