package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/epl-insights/internal/usecase"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) googleResponseEnvelope {
	t.Helper()

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope
}

func TestWriteSuccess(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeSuccess(t.Context(), rec, http.StatusCreated, map[string]string{"status": "ok"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type: %s", got)
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.APIVersion != "2.0" {
		t.Fatalf("unexpected apiVersion: %s", envelope.APIVersion)
	}
	if envelope.Error != nil {
		t.Fatalf("success envelope must not carry an error: %+v", envelope.Error)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok || data["status"] != "ok" {
		t.Fatalf("unexpected data: %+v", envelope.Data)
	}
}

func TestWriteError_StatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
		wantCode   string
	}{
		{"malformed input", fmt.Errorf("%w: bad csv", usecase.ErrMalformedInput), http.StatusBadRequest, "malformedInput", "INVALID_ARGUMENT"},
		{"invalid input", fmt.Errorf("%w: bad filter", usecase.ErrInvalidInput), http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"},
		{"not found", fmt.Errorf("%w: team=Leeds", usecase.ErrNotFound), http.StatusNotFound, "notFound", "NOT_FOUND"},
		{"no dataset", fmt.Errorf("%w: dataset=ds-9", usecase.ErrNoDataset), http.StatusConflict, "noDataset", "FAILED_PRECONDITION"},
		{"insufficient data", fmt.Errorf("%w: no home matches", usecase.ErrInsufficientData), http.StatusUnprocessableEntity, "insufficientData", "FAILED_PRECONDITION"},
		{"dependency unavailable", fmt.Errorf("%w: archive down", usecase.ErrDependencyUnavailable), http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "internalError", "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			writeError(t.Context(), rec, tc.err)

			if rec.Code != tc.wantStatus {
				t.Fatalf("unexpected status: got %d want %d", rec.Code, tc.wantStatus)
			}

			envelope := decodeEnvelope(t, rec)
			if envelope.Error == nil {
				t.Fatalf("expected error body")
			}
			if envelope.Error.Code != tc.wantStatus || envelope.Error.Status != tc.wantCode {
				t.Fatalf("unexpected error body: %+v", envelope.Error)
			}
			if len(envelope.Error.Errors) != 1 {
				t.Fatalf("expected one error item, got %d", len(envelope.Error.Errors))
			}
			item := envelope.Error.Errors[0]
			if item.Domain != "epl-insights" || item.Reason != tc.wantReason {
				t.Fatalf("unexpected error item: %+v", item)
			}
			if item.Message != tc.err.Error() {
				t.Fatalf("unexpected error message: %q", item.Message)
			}
		})
	}
}

func TestWriteError_MalformedWinsOverInvalid(t *testing.T) {
	t.Parallel()

	// Parse failures wrap both sentinels on some paths; the more specific
	// malformed reason must win.
	err := fmt.Errorf("%w: %w", usecase.ErrMalformedInput, usecase.ErrInvalidInput)

	rec := httptest.NewRecorder()
	writeError(t.Context(), rec, err)

	envelope := decodeEnvelope(t, rec)
	if envelope.Error == nil || envelope.Error.Errors[0].Reason != "malformedInput" {
		t.Fatalf("expected malformedInput reason, got %+v", envelope.Error)
	}
}

func TestWriteInternalError_HidesDetails(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeInternalError(t.Context(), rec)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Error == nil || envelope.Error.Message != "internal server error" {
		t.Fatalf("unexpected error body: %+v", envelope.Error)
	}
}
