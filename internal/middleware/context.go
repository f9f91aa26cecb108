package middleware

import (
	"context"
	"time"

	"github.com/Payphone-Digital/tokenauth/internal/constants"
	apperrors "github.com/Payphone-Digital/tokenauth/internal/errors"
	ctxutil "github.com/Payphone-Digital/tokenauth/pkg/context"
	"github.com/Payphone-Digital/tokenauth/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxRequestIDLength bounds client-supplied request ids before they reach logs.
const maxRequestIDLength = 128

// ContextMiddleware seeds the request context with request id, client ip,
// user agent and start time, and echoes the request id back.
func ContextMiddleware(module string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
		ctx = ctxutil.WithValue(ctx, ctxutil.ClientIPKey, c.ClientIP())
		ctx = ctxutil.NewContextWithRequest(ctx, c.Request, module, c.FullPath())

		c.Request = c.Request.WithContext(ctx)
		c.Header(constants.HeaderXRequestID, requestID)

		c.Next()
	}
}

// RequestTimeoutMiddleware bounds every downstream call made with the
// request context.
func RequestTimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			logger.WarnWithContext(ctx, "Request timed out").
				Duration(timeout).
				Log()
			c.AbortWithStatusJSON(apperrors.ToHTTPStatus(apperrors.ErrServiceUnavailable), constants.BuildMessageResponse(constants.MsgServiceUnavailable))
		}
	}
}
