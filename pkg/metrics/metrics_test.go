package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentOutcome(t *testing.T) {
	m := New()
	m.AssignmentOutcome(OutcomeApplied)
	m.AssignmentOutcome(OutcomeApplied)
	m.AssignmentOutcome(OutcomeConflict)
	assert.InDelta(t, 2, testutil.ToFloat64(m.assignments.WithLabelValues(OutcomeApplied)), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.assignments.WithLabelValues(OutcomeConflict)), 1e-9)

	var nilM *Metrics
	nilM.AssignmentOutcome(OutcomeApplied)
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	e.GET("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requests.WithLabelValues("/ping", "GET", "200")), 1e-9)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "canefarm_http_requests_total")
}
