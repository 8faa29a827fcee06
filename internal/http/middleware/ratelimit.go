package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit keeps one token bucket per client key. Used on the impression
// report endpoint so a misbehaving display client cannot flood the analytics
// log; well-behaved clients report at carousel pace and never notice it.
func RateLimit(perSecond rate.Limit, burst int, keyFn func(*gin.Context) string) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		buckets = make(map[string]*rate.Limiter)
	)

	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := buckets[key]
		if !ok {
			l = rate.NewLimiter(perSecond, burst)
			buckets[key] = l
		}
		return l
	}

	return func(c *gin.Context) {
		key := keyFn(c)
		if key == "" {
			key = c.ClientIP()
		}
		if !limiterFor(key).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
