package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit is a per-IP token bucket for the write endpoints (checkout,
// proof submission). Buckets idle for an hour are dropped.
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	type bucket struct {
		lim  *rate.Limiter
		seen time.Time
	}

	var (
		mu      sync.Mutex
		buckets = map[string]*bucket{}
	)

	sweep := func(now time.Time) {
		for ip, b := range buckets {
			if now.Sub(b.seen) > time.Hour {
				delete(buckets, ip)
			}
		}
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		b, ok := buckets[ip]
		if !ok {
			b = &bucket{lim: rate.NewLimiter(r, burst)}
			buckets[ip] = b
			if len(buckets)%256 == 0 {
				sweep(now)
			}
		}
		b.seen = now
		allowed := b.lim.Allow()
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many requests, slow down",
				"request_id": GetRequestID(c),
			})
			return
		}

		c.Next()
	}
}
