package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Movements(t *testing.T) {
	m := New()

	m.MovementRecorded("IN", 20)
	m.MovementRecorded("OUT", 3)
	m.MovementRecorded("OUT", 2)
	m.MovementRejected("insufficient_stock")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.movementsRecorded.WithLabelValues("IN")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.movementsRecorded.WithLabelValues("OUT")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.movementUnits.WithLabelValues("OUT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.movementsRejected.WithLabelValues("insufficient_stock")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveHTTP("POST", "/api/movements", 201, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `inventario_ledger_http_requests_total{method="POST",route="/api/movements",status="201"} 1`))
	assert.Contains(t, body, "inventario_ledger_http_request_duration_seconds_bucket")
}
