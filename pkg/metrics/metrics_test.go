package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.TokenIssued("login")
	m.TokenIssued("login")
	m.TokenIssued("registration")
	m.TokensPruned(3)
	m.TokensPruned(0)
	m.TokenRevoked()
	m.Validation(OutcomeExpired)
	m.RateLimited("/api/auth/login")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.tokensIssued.WithLabelValues("login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tokensIssued.WithLabelValues("registration")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.tokensPruned))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tokensRevoked))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validations.WithLabelValues(OutcomeExpired)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited.WithLabelValues("/api/auth/login")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.TokenIssued("login")
		m.TokensPruned(1)
		m.TokenRevoked()
		m.Validation(OutcomeValid)
		m.RateLimited("/")
		m.ObserveRequest(http.MethodGet, "/", 200, time.Millisecond)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/auth/me", 200, 5*time.Millisecond)
	m.Validation(OutcomeValid)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "tokenauth_http_request_duration_seconds")
	assert.Contains(t, body, `tokenauth_token_validations_total{outcome="valid"} 1`)
}
