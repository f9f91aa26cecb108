package middleware

import (
	"net/http"
	"time"

	"github.com/Payphone-Digital/tokenauth/internal/constants"
	"github.com/Payphone-Digital/tokenauth/pkg/logger"
	"github.com/Payphone-Digital/tokenauth/pkg/metrics"
	"github.com/gin-gonic/gin"
)

const slowRequestThreshold = 2 * time.Second

// RequestLogMiddleware writes one access log line per request. Bodies are
// never logged since they carry passwords and tokens.
func RequestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		status := c.Writer.Status()
		ctx := c.Request.Context()

		var b *logger.ContextLogBuilder
		switch {
		case status >= http.StatusInternalServerError:
			b = logger.ErrorWithContext(ctx, "Server error")
		case status >= http.StatusBadRequest:
			b = logger.WarnWithContext(ctx, "Client error")
		case latency > slowRequestThreshold:
			b = logger.WarnWithContext(ctx, "Slow request")
		default:
			b = logger.InfoWithContext(ctx, "Request completed")
		}

		b.String("method", c.Request.Method).
			String("path", c.Request.URL.Path).
			String("user_agent", c.Request.UserAgent()).
			Int("status_code", status).
			Int("response_size", c.Writer.Size()).
			Duration(latency)

		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			b.String("errors", errs)
		}
		b.Log()
	}
}

// RecoveryMiddleware recovers from panics and logs them
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered)

		c.AbortWithStatusJSON(http.StatusInternalServerError, constants.BuildMessageResponse(constants.MsgInternalError))
	})
}

// MetricsMiddleware records request latency by matched route.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(startTime))
	}
}
