package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/v1/dashboard", 200, 15*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/dashboard", 200, 5*time.Millisecond)
	m.SetOpenPositions(3)
	m.SetMarketRSI(32.4)
	m.CountNotification("position")

	body := scrape(t, m)
	assert.Contains(t, body, `spxdash_http_requests_total{method="GET",route="/api/v1/dashboard",status="200"} 2`)
	assert.Contains(t, body, `spxdash_http_request_duration_seconds_count{method="GET",route="/api/v1/dashboard"} 2`)
	assert.Contains(t, body, "spxdash_open_positions 3")
	assert.Contains(t, body, "spxdash_market_rsi 32.4")
	assert.Contains(t, body, `spxdash_notifications_total{kind="position"} 1`)
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.SetOpenPositions(5)
	assert.Contains(t, scrape(t, b), "spxdash_open_positions 0")
}
