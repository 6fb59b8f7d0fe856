package apihandlers

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	requestIDKey    = "requestID"
	RequestIDHeader = "X-Request-ID"
)

// RequestID tags each request with the caller's X-Request-ID or a fresh UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one line per request with its status and latency.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		entry := log.WithFields(log.Fields{
			"method":     c.Request.Method,
			"path":       path,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
			"request_id": c.GetString(requestIDKey),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request served")
		}
	}
}

// IPRateLimiter keeps one token bucket per client IP. Buckets idle longer than the sweep
// window are dropped by Sweep, which StartSweeper runs periodically.
type IPRateLimiter struct {
	limiters sync.Map // ip -> *clientLimiter
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{rate: r, burst: burst, now: time.Now}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	v, ok := i.limiters.Load(ip)
	if !ok {
		v, _ = i.limiters.LoadOrStore(ip, &clientLimiter{limiter: rate.NewLimiter(i.rate, i.burst)})
	}
	cl := v.(*clientLimiter)
	cl.lastSeen.Store(i.now().UnixNano())
	return cl.limiter
}

// Sweep removes buckets not used within idle and returns how many were removed.
func (i *IPRateLimiter) Sweep(idle time.Duration) int {
	cutoff := i.now().Add(-idle).UnixNano()
	removed := 0
	i.limiters.Range(func(key, v any) bool {
		if v.(*clientLimiter).lastSeen.Load() < cutoff {
			i.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// StartSweeper calls Sweep(idle) every interval until ctx is done.
func (i *IPRateLimiter) StartSweeper(ctx context.Context, interval, idle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := i.Sweep(idle); n > 0 {
					log.WithField("removed", n).Debug("swept idle rate limiters")
				}
			}
		}
	}()
}

// RateLimit rejects requests over the per-IP budget with 429.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !i.getLimiter(ip).Allow() {
			log.WithFields(log.Fields{"client_ip": ip, "path": c.Request.URL.Path}).Warn("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Success: false, Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
