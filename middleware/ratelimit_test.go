package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimit_PerIP(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	handler := RateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/brackets/b1", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:4000"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:4001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:4002"), "same ip, different port")
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:4000"), "other ips keep their own bucket")
	assert.Equal(t, http.StatusNoContent, call("no-port"))
}

func TestIPRateLimiter_PrunesIdleEntries(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i <= limiterCleanupThreshold; i++ {
		limiter.limiterFor(fmt.Sprintf("10.1.%d.%d", i/256, i%256))
	}
	assert.Len(t, limiter.ips, limiterCleanupThreshold+1)

	now = now.Add(limiterMaxIdle + time.Second)
	limiter.limiterFor("192.168.0.1")
	assert.Len(t, limiter.ips, 1)
}
