package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// TestRateLimiter_Burst verifies that a burst is allowed and the next request refused.
func TestRateLimiter_Burst(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 3)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("fourth request should exceed the burst")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatal("other IPs have their own bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("10.0.0.1") {
		t.Fatal("one token should refill after a second")
	}

	now = now.Add(10 * time.Minute)
	if removed := rl.Cleanup(); removed != 2 {
		t.Errorf("expected both idle visitors dropped, got %d", removed)
	}
}

// TestRateLimit_Middleware verifies the 429 response and that ports are ignored.
func TestRateLimit_Middleware(t *testing.T) {
	handler := RateLimit(NewRateLimiter(0.001, 1))(okHandler())

	first := httptest.NewRequest("GET", "/", nil)
	first.RemoteAddr = "192.0.2.1:5000"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, first)
	if rr.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rr.Code)
	}

	second := httptest.NewRequest("GET", "/", nil)
	second.RemoteAddr = "192.0.2.1:6000"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, second)
	if rr.Code != http.StatusTooManyRequests || rr.Header().Get("Retry-After") == "" {
		t.Fatalf("expected 429 with Retry-After, got %d", rr.Code)
	}
}

// TestSecurityHeaders verifies the API headers.
func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(okHandler()).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options", "Referrer-Policy"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
}

// TestCSRF_ExemptsJSONAndBearer verifies which requests skip the token check.
func TestCSRF_ExemptsJSONAndBearer(t *testing.T) {
	handler := CSRF(make([]byte, 32), false, nil)(okHandler())

	tests := []struct {
		name   string
		header map[string]string
		want   int
	}{
		{"json", map[string]string{"Content-Type": "application/json"}, http.StatusOK},
		{"bearer", map[string]string{"Authorization": "Bearer abc", "Content-Type": "application/x-www-form-urlencoded"}, http.StatusOK},
		{"form", map[string]string{"Content-Type": "application/x-www-form-urlencoded"}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/logout", strings.NewReader("a=b"))
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

// TestCORS verifies that only configured origins are echoed.
func TestCORS(t *testing.T) {
	handler := CORS([]string{"http://localhost:8081"})(okHandler())

	req := httptest.NewRequest("GET", "/api/players", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:8081" {
		t.Errorf("expected origin echoed, got %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest("GET", "/api/players", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unknown origin must not be allowed")
	}
}
