package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsStatus(t *testing.T) {
	m := New(prometheus.NewRegistry())
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusSeeOther)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/logout", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "303")))
}

func TestLogoutCounter(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Logout("ok")
	m.Logout("ok")
	m.Logout("error")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.logouts.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logouts.WithLabelValues("error")))

	var nilMetrics *Metrics
	nilMetrics.Logout("ok")
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Logout("ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cms_logouts_total{result="ok"} 1`)
}
