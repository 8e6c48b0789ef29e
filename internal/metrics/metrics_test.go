package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/file-finder/backend/internal/search"
)

func TestObserveSearch(t *testing.T) {
	m := New()
	m.ObserveSearch(search.Report{Paths: []string{"/a", "/b"}, Skipped: 3, Cycles: 1}, 5*time.Millisecond)
	m.ObserveSearch(search.Report{Paths: []string{}}, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.searches))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.matches))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.skipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cycles))
}

func TestObserveInvocation(t *testing.T) {
	m := New()
	m.ObserveInvocation("search_file", "ok")
	m.ObserveInvocation("search_file", "ok")
	m.ObserveInvocation("greet", "error")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.invocations.WithLabelValues("search_file", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invocations.WithLabelValues("greet", "error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSearch(search.Report{}, time.Second)
		m.ObserveInvocation("greet", "ok")
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveInvocation("greet", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `filefinder_command_invocations_total{command="greet",status="ok"} 1`)
	assert.Contains(t, string(body), "filefinder_search_duration_seconds_bucket")
}
