package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"signbridge/internal/ratelimit"
)

// RateLimit gates a route group behind a fixed-window limiter, keyed by
// client IP. A nil limiter disables the gate (dev setups without Redis).
func RateLimit(limiter *ratelimit.FixedWindowLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		if !limiter.Allow(c.Request.Context(), c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}
		c.Next()
	}
}
