package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS_AllowedOriginIsEchoed(t *testing.T) {
	t.Parallel()

	handler := CORS([]string{"https://insights.example.com"}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/datasets", nil)
	req.Header.Set("Origin", "https://insights.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://insights.example.com" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("expected Vary: Origin, got %q", got)
	}
}

func TestCORS_WildcardAllowsAnyOrigin(t *testing.T) {
	t.Parallel()

	handler := CORS([]string{"*"}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/datasets", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
}

func TestCORS_DisallowedOriginGetsNoHeaders(t *testing.T) {
	t.Parallel()

	handler := CORS([]string{"https://insights.example.com"}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/datasets", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow origin header, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("request itself must still pass through, got %d", rec.Code)
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	t.Parallel()

	var reachedNext bool
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reachedNext = true
	})
	handler := CORS([]string{"*"}, next)

	req := httptest.NewRequest(http.MethodOptions, "/v1/datasets", nil)
	req.Header.Set("Origin", "https://insights.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected preflight status: %d", rec.Code)
	}
	if reachedNext {
		t.Fatalf("preflight must not reach the next handler")
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatalf("expected allow methods header on preflight")
	}
}

func TestShouldTraceRequest(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want bool
	}{
		{"/healthz", false},
		{"/HEALTHZ", false},
		{"/readyz", false},
		{"/livez", false},
		{"/health", false},
		{"/v1/datasets", true},
		{"/v1/datasets/default/standings", true},
	}

	for _, tc := range cases {
		if got := shouldTraceRequest(tc.path); got != tc.want {
			t.Fatalf("shouldTraceRequest(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
