package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		RequestsPerMinute: 60,
		Burst:             5,
		CleanupInterval:   time.Minute,
	})

	for i := 0; i < 5; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d within burst was denied", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("request above burst was allowed")
	}

	// A different client has its own budget.
	if !rl.Allow("5.6.7.8") {
		t.Error("separate client was denied")
	}
}

func TestRateLimiter_MiddlewareRejectsWith429(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		RequestsPerMinute: 60,
		Burst:             1,
		CleanupInterval:   time.Minute,
	})

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/search", nil)
	req.RemoteAddr = "9.9.9.9:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*http.Request)
		remote string
		want   string
	}{
		{
			name:   "x-forwarded-for single",
			setup:  func(r *http.Request) { r.Header.Set("X-Forwarded-For", "10.0.0.1") },
			remote: "127.0.0.1:80",
			want:   "10.0.0.1",
		},
		{
			name:   "x-forwarded-for chain takes first",
			setup:  func(r *http.Request) { r.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2") },
			remote: "127.0.0.1:80",
			want:   "10.0.0.1",
		},
		{
			name:   "x-real-ip",
			setup:  func(r *http.Request) { r.Header.Set("X-Real-IP", "10.0.0.3") },
			remote: "127.0.0.1:80",
			want:   "10.0.0.3",
		},
		{
			name:   "remote addr fallback strips port",
			setup:  func(r *http.Request) {},
			remote: "192.168.1.1:5555",
			want:   "192.168.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			tt.setup(req)
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP = %s, want %s", got, tt.want)
			}
		})
	}
}
