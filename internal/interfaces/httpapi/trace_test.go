package httpapi

import (
	"testing"
)

func TestStartSpan_NoParentReturnsSameContext(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	got, span := startSpan(ctx, "httpapi.Handler.Healthz")
	defer span.End()

	// Filtered routes carry no parent span; internal helpers must not mint
	// standalone root spans for them.
	if got != ctx {
		t.Fatalf("expected unchanged context without a parent span")
	}
	if span.SpanContext().IsValid() {
		t.Fatalf("expected a noop span, got %v", span.SpanContext())
	}
}

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want bool
	}{
		{"httpapi.Handler.UploadDataset", true},
		{"httpapi.Handler.PredictMatch", true},
		{"httpapi.writeJSON", false},
		{"httpapi.CORS", false},
		{"usecase.DatasetService.Upload", false},
	}

	for _, tc := range cases {
		if got := shouldCreateHTTPAPISpan(tc.name); got != tc.want {
			t.Fatalf("shouldCreateHTTPAPISpan(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
