package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"dentalcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	visitorIdle     = 3 * time.Minute
	cleanupInterval = time.Minute
)

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	ips map[string]*visitor
	mu  sync.Mutex
	r   rate.Limit
	b   int
	now func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter starts a background sweep of idle visitors that stops
// when ctx is done.
func NewIPRateLimiter(ctx context.Context, r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		ips: make(map[string]*visitor),
		r:   r,
		b:   b,
		now: time.Now,
	}
	go i.cleanupVisitors(ctx)
	return i
}

// GetLimiter returns the limiter for ip, creating it on first sight.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	v, exists := i.ips[ip]
	if !exists {
		limiter := rate.NewLimiter(i.r, i.b)
		i.ips[ip] = &visitor{limiter, i.now()}
		return limiter
	}

	v.lastSeen = i.now()
	return v.limiter
}

func (i *IPRateLimiter) sweep() {
	i.mu.Lock()
	defer i.mu.Unlock()
	for ip, v := range i.ips {
		if i.now().Sub(v.lastSeen) > visitorIdle {
			delete(i.ips, ip)
		}
	}
}

func (i *IPRateLimiter) cleanupVisitors(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			i.sweep()
		}
	}
}

// RateLimitMiddleware answers 429 once a client exceeds its bucket.
func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "Too many requests, please slow down")
			return
		}
		c.Next()
	}
}
