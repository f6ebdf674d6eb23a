package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type memoryLimiter struct {
	counts map[string]int64
}

func newMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{counts: map[string]int64{}}
}

func (m *memoryLimiter) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	m.counts[key]++
	return m.counts[key], nil
}

func loginBody() io.Reader {
	return strings.NewReader(`{"email":"Target@Example.com","password":"x"}`)
}

func passThroughHandler(hits *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRateLimitBlocksPerIP(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	store := newMemoryLimiter()
	var hits int
	handler := AuthRateLimit(policy, store, nil)(passThroughHandler(&hits))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", loginBody())
		req.RemoteAddr = "198.51.100.7:4444"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", loginBody())
	req.RemoteAddr = "198.51.100.7:4444"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if hits != 2 {
		t.Fatalf("expected 2 upstream hits, got %d", hits)
	}
}

func TestAuthRateLimitScopesByIP(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1, 0)
	store := newMemoryLimiter()
	var hits int
	handler := AuthRateLimit(policy, store, nil)(passThroughHandler(&hits))

	first := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", loginBody())
	first.RemoteAddr = "198.51.100.7:4444"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	other := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", loginBody())
	other.RemoteAddr = "203.0.113.9:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Fatalf("a different ip must not share the counter, got %d", rec.Code)
	}
}

func TestAuthRateLimitBlocksPerEmail(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 1)
	store := newMemoryLimiter()
	var hits int
	handler := AuthRateLimit(policy, store, nil)(passThroughHandler(&hits))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", loginBody())
	req.RemoteAddr = "198.51.100.7:4444"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Same email from a different address still trips the counter.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", loginBody())
	req.RemoteAddr = "203.0.113.9:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestAuthRateLimitPreservesRequestBody(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 5)
	store := newMemoryLimiter()

	var seen []byte
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		seen = body
		w.WriteHeader(http.StatusOK)
	}))

	payload := []byte(`{"email":"target@example.com","password":"x"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Equal(seen, payload) {
		t.Fatal("downstream handler must see the original body")
	}
}

func TestAuthRateLimitHonorsForwardedFor(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1, 0)
	store := newMemoryLimiter()
	var hits int
	handler := AuthRateLimit(policy, store, nil)(passThroughHandler(&hits))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", loginBody())
		req.RemoteAddr = "10.0.0.1:1111"
		req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if i == 0 && rec.Code != http.StatusOK {
			t.Fatalf("expected first attempt to pass, got %d", rec.Code)
		}
		if i == 1 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected forwarded ip to be counted, got %d", rec.Code)
		}
	}

	if _, ok := store.counts["rl:ip:login:198.51.100.7"]; !ok {
		t.Fatal("expected the forwarded client ip key")
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	var hits int
	handler := AuthRateLimit(AuthRateLimitPolicy{}, newMemoryLimiter(), nil)(passThroughHandler(&hits))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", loginBody())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || hits != 1 {
		t.Fatalf("expected pass-through, got %d with %d hits", rec.Code, hits)
	}
}
