package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inkwelldev/inkwell/internal/ratelimit"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestUserKey(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		remoteAddr string
		want       string
	}{
		{"header wins", "editor-42", "10.0.0.1:1234", "editor-42"},
		{"falls back to IP", "", "10.0.0.1:1234", "10.0.0.1"},
		{"bare addr without port", "", "10.0.0.1", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.header != "" {
				r.Header.Set("X-User-ID", tt.header)
			}
			if got := UserKey(r); got != tt.want {
				t.Errorf("UserKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS(okHandler())

	r := httptest.NewRequest(http.MethodOptions, "/api/v1/categorize", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, X-User-ID" {
		t.Errorf("Allow-Headers = %q", got)
	}
}

func TestRecovery(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.New(ratelimit.NewMemoryCounterStore(), 2, time.Minute)
	handler := RateLimit(limiter)(okHandler())

	send := func(user string) int {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/categorize", nil)
		r.Header.Set("X-User-ID", user)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	if code := send("u1"); code != http.StatusOK {
		t.Fatalf("first request status = %d", code)
	}
	if code := send("u1"); code != http.StatusOK {
		t.Fatalf("second request status = %d", code)
	}
	if code := send("u1"); code != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", code)
	}
	if code := send("u2"); code != http.StatusOK {
		t.Errorf("other user status = %d, want 200", code)
	}
}
