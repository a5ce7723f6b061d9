package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := New()
	c.Record("GET", "/api/v1/employees", 200, 15*time.Millisecond)
	c.Record("GET", "/api/v1/employees", 200, 5*time.Millisecond)
	c.Record("GET", "", 404, time.Millisecond)
	c.AccessDecision("employees.list", false)
	c.BackendCall("GET", 0)
	c.JobResult("audit:employee.create", errors.New("x"))
	c.LogStatement("WARN")
	c.Superseded("team_payroll")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/api/v1/employees", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.accessDecisions.WithLabelValues("employees.list", "denied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.backendCalls.WithLabelValues("GET", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.jobs.WithLabelValues("audit:employee.create", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.superseded.WithLabelValues("team_payroll")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.Record("POST", "/api/v1/auth/login", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hrportal_http_requests_total")
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.AccessDecision("audit.view", true)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.accessDecisions.WithLabelValues("audit.view", "allowed")))
}
