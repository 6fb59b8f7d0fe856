package apihandlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewIPRateLimiter(rate.Limit(0.001), 2).RateLimit())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	// Another client has its own bucket.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))
	assert.Len(t, w.Body.String(), 36)
}

func limiterCount(l *IPRateLimiter) int {
	n := 0
	l.limiters.Range(func(_, _ any) bool { n++; return true })
	return n
}

func TestRateLimit_SweepDropsIdleClients(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(rate.Limit(1), 1)
	l.now = func() time.Time { return clock }

	l.getLimiter("10.0.0.1")
	clock = clock.Add(5 * time.Minute)
	l.getLimiter("10.0.0.2")
	require.Equal(t, 2, limiterCount(l))

	clock = clock.Add(6 * time.Minute)
	assert.Equal(t, 1, l.Sweep(10*time.Minute))
	assert.Equal(t, 1, limiterCount(l))
	_, kept := l.limiters.Load("10.0.0.2")
	assert.True(t, kept)

	// A returning client starts with a fresh bucket.
	assert.True(t, l.getLimiter("10.0.0.1").Allow())
	assert.Equal(t, 2, limiterCount(l))
}

func TestRateLimit_SweeperStopsWithContext(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	l.getLimiter("10.0.0.1")

	ctx, cancel := context.WithCancel(context.Background())
	l.StartSweeper(ctx, 5*time.Millisecond, 0)
	assert.Eventually(t, func() bool { return limiterCount(l) == 0 }, time.Second, 5*time.Millisecond)
	cancel()
}
