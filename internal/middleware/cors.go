package middleware

import (
	"time"

	"github.com/Payphone-Digital/tokenauth/internal/constants"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows any origin. Credentials travel in the Authorization header, so
// cookies are never needed.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			constants.HeaderContentType,
			constants.HeaderAuthorization,
			constants.HeaderXRequestID,
		},
		ExposeHeaders: []string{
			constants.HeaderXRequestID,
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			constants.HeaderRetryAfter,
		},
		MaxAge: 12 * time.Hour,
	})
}
