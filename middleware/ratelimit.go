package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/serac-labs/seracpay/utils"
)

// RateLimitMiddleware applies a fixed-window per-IP limit backed by Redis.
// With a nil client (no REDIS_ADDR configured) it passes everything through.
// A Redis outage also passes requests through: losing the limiter must not
// block payment confirmation.
func RateLimitMiddleware(rdb *redis.Client, limit int64, window time.Duration) gin.HandlerFunc {
	if rdb == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP() + ":" + c.FullPath()

		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			utils.LogWarn("Rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(c.Request.Context(), key, window)
		}

		if count > limit {
			utils.LogWarn("Rate limit exceeded for %s on %s", c.ClientIP(), c.FullPath())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "Too many requests",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
