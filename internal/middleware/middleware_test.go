package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/shelf/internal/ctxkeys"
	"github.com/templui/shelf/internal/metrics"
	"github.com/templui/shelf/internal/model"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimiterRejectsOverBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	t.Cleanup(rl.Stop)
	h := rl.Middleware(http.HandlerFunc(okHandler))

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/feed", nil)
		req.RemoteAddr = ip + ":5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("192.0.2.1").Code)
	assert.Equal(t, http.StatusOK, send("192.0.2.1").Code)

	rec := send("192.0.2.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "too many requests")

	// Buckets are per client.
	assert.Equal(t, http.StatusOK, send("192.0.2.2").Code)
}

func TestAuthRateLimiterRetryAfter(t *testing.T) {
	rl := NewAuthRateLimiter()
	t.Cleanup(rl.Stop)

	for range 5 {
		assert.True(t, rl.Allow("198.51.100.7"))
	}
	assert.False(t, rl.Allow("198.51.100.7"))

	rec := httptest.NewRecorder()
	rl.reject(rec)
	retryAfter, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.InDelta(t, 180, retryAfter, 1)
}

func TestRateLimiterCleanupDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	t.Cleanup(rl.Stop)

	rl.Allow("192.0.2.9")
	rl.mu.Lock()
	rl.clients["192.0.2.9"].lastAccess = rl.clients["192.0.2.9"].lastAccess.Add(-2 * rl.idleTTL)
	rl.mu.Unlock()

	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.clients)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": " 203.0.113.6 "}, "10.0.0.2:1234", "203.0.113.6"},
		{"remote addr", nil, "203.0.113.7:4321", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{ID: "u1"}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, bearerToken(req))

	req.AddCookie(&http.Cookie{Name: AuthCookie, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", bearerToken(req))

	req.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", bearerToken(req))
}

type recordingRecorder struct {
	metrics.Nop
	statuses []int
}

func (r *recordingRecorder) RecordHTTPRequest(_ string, status int, _ time.Duration) {
	r.statuses = append(r.statuses, status)
}

func TestRequestLoggingRecordsStatus(t *testing.T) {
	rec := &recordingRecorder{}
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), RequestLogging(rec))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/feed", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Len(t, rec.statuses, 1)
	assert.Equal(t, http.StatusTeapot, rec.statuses[0])
}
