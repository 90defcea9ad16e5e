package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ObserveIndex(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.ObserveIndex("performance", 70)
	m.ObserveIndex("performance", 85)
	m.ObserveIndex("forme", 40)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.CounterIndexComputed.WithLabelValues("performance")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterIndexComputed.WithLabelValues("forme")))

	count, err := testutil.GatherAndCount(reg, "sprintflow_test_server_index_score")
	require.NoError(t, err)
	assert.Equal(t, 2, count) // one series per index label
}

func TestManager_ObserveIndex_NilSafe(t *testing.T) {
	var m *Manager
	assert.NotPanics(t, func() {
		m.ObserveIndex("performance", 50)
	})
}

func TestSetupPrometheus_ExtraCollectors(t *testing.T) {
	extra := prometheus.NewCounter(prometheus.CounterOpts{Name: "extra_total", Help: "extra"})
	reg := SetupPrometheus(extra)
	extra.Inc()

	count, err := testutil.GatherAndCount(reg, "extra_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHandler(t *testing.T) {
	extra := prometheus.NewCounter(prometheus.CounterOpts{Name: "extra_total", Help: "extra"})
	reg := SetupPrometheus(extra)
	extra.Inc()

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "extra_total 1")
	assert.Contains(t, string(body), "promhttp_metric_handler_requests_in_flight")
}
