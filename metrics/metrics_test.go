package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, g.Write(m))
	return m.GetGauge().GetValue()
}

func TestRequestsTotalCountsByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RequestsTotal.WithLabelValues("python3", "run").Inc()
	m.RequestDuration.WithLabelValues("python3").Observe(0.25)

	count := testutilCounterValue(t, m.RequestsTotal.WithLabelValues("python3", "run"))
	require.Equal(t, float64(1), count)
}

func testutilCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestGaugeSinkMethodsUpdateGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SetQueueSize(3)
	m.SetConcurrentRequests(2)

	require.Equal(t, float64(3), gaugeValue(t, m.QueueSize))
	require.Equal(t, float64(2), gaugeValue(t, m.ConcurrentRequests))
}
