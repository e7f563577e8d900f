package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveScriptIncrementsCounters(t *testing.T) {
	m := New("atrium_test")
	m.ObserveScript("verb", 12*time.Millisecond, "")
	m.ObserveScript("verb", 5*time.Millisecond, "Runtime")

	require.Equal(t, float64(2), testutil.ToFloat64(m.ScriptInvocations.WithLabelValues("verb")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.ScriptErrorsTotal.WithLabelValues("Runtime")))
}

func TestHandlerServesMetrics(t *testing.T) {
	m := New("atrium_test2")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)
}
