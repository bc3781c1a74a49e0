package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type window struct {
	start time.Time
	count int
}

// SimpleRateLimit is the in-process fixed window limiter used when no
// Redis is configured. Each call gets its own counters.
func SimpleRateLimit(maxRequests int, per time.Duration) gin.HandlerFunc {
	var mu sync.Mutex
	windows := make(map[string]*window)
	lastSweep := time.Now()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > per {
			for k, w := range windows {
				if now.Sub(w.start) > per {
					delete(windows, k)
				}
			}
			lastSweep = now
		}
		w, ok := windows[ip]
		if !ok || now.Sub(w.start) > per {
			w = &window{start: now}
			windows[ip] = w
		}
		w.count++
		count := w.count
		mu.Unlock()

		setHeaders(c, maxRequests, count)
		if count > maxRequests {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
