package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/tokenauth/internal/constants"
	ctxutil "github.com/Payphone-Digital/tokenauth/pkg/context"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(ContextMiddleware("http"))
	r.GET("/ping", func(c *gin.Context) {
		ctx := c.Request.Context()
		c.JSON(http.StatusOK, gin.H{
			"request_id": ctxutil.GetRequestID(ctx),
			"client_ip":  ctxutil.GetClientIP(ctx),
			"module":     ctxutil.GetModule(ctx),
		})
	})

	t.Run("generates id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		id := rec.Header().Get(constants.HeaderXRequestID)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Contains(t, rec.Body.String(), id)
		assert.Contains(t, rec.Body.String(), `"module":"http"`)
	})

	t.Run("keeps client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(constants.HeaderXRequestID, "abc-123")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get(constants.HeaderXRequestID))
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(constants.HeaderXRequestID, strings.Repeat("x", maxRequestIDLength+1))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		_, err := uuid.Parse(rec.Header().Get(constants.HeaderXRequestID))
		assert.NoError(t, err)
	})
}

func TestRequestTimeoutMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestTimeoutMiddleware(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message":"Service unavailable"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fast", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
