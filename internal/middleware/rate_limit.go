package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Payphone-Digital/tokenauth/internal/constants"
	"github.com/Payphone-Digital/tokenauth/pkg/logger"
	"github.com/Payphone-Digital/tokenauth/pkg/metrics"
	"github.com/Payphone-Digital/tokenauth/pkg/ratelimit"
	"github.com/gin-gonic/gin"
)

// RateLimit throttles requests per client IP. When the limiter itself fails
// the request is let through.
func RateLimit(limiter ratelimit.Limiter, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ip := c.ClientIP()
		now := time.Now()

		result, err := limiter.Allow(ctx, ip)
		if err != nil {
			logger.WarnWithContext(ctx, "Rate limiter unavailable, allowing request").
				String("path", c.Request.URL.Path).
				Err(err).
				Log()
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			retryAfter := int(math.Ceil(result.RetryAfter(now).Seconds()))
			m.RateLimited(c.FullPath())

			logger.WarnWithContext(ctx, "Rate limit exceeded").
				String("method", c.Request.Method).
				String("path", c.Request.URL.Path).
				Int("max_requests", result.Limit).
				Int("retry_after_seconds", retryAfter).
				Log()

			c.Header(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, constants.BuildMessageResponse(constants.MsgTooManyAttempts))
			return
		}

		c.Next()
	}
}
