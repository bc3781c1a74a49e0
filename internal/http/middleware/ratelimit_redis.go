package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/clawbot69/clawnopoly/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter shares rdb with the limiter. A nil client leaves
// RedisRateLimit on its in-process fallback.
func InitRedisRateLimiter(rdb *redis.Client) {
	redisClient = rdb
}

// RedisRateLimit is a fixed-window limit per client IP kept in Redis with
// INCR/EXPIRE under rl:<window_seconds>:<ip>. Redis errors let the request
// through.
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	local := SimpleRateLimit(maxRequests, window)
	windowKey := strconv.FormatInt(int64(window.Seconds()), 10)

	return func(c *gin.Context) {
		if redisClient == nil {
			local(c)
			return
		}

		ctx := c.Request.Context()
		key := "clawnopoly:rl:" + windowKey + ":" + c.ClientIP()

		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", "error", err)
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}
		if count == 1 {
			redisClient.Expire(ctx, key, window)
		}

		setHeaders(c, maxRequests, int(count))
		if count > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

func setHeaders(c *gin.Context, limit, count int) {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
}
