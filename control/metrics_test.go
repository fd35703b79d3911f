package control_test

import (
	"testing"

	"github.com/momentics/hioload-echo/control"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := control.NewMetrics(reg)

	m.Accepted()
	m.Accepted()
	m.Read(10)
	m.Written(4)
	m.Backpressure()
	m.Closed(control.ReasonEOF)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.AcceptedConnections))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ActiveConnections))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ClosedConnections.WithLabelValues(control.ReasonEOF)))
	assert.Equal(t, float64(10), testutil.ToFloat64(m.BytesRead))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.BytesWritten))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.WriteBackpressure))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["echo_active_connections"])
	assert.True(t, names["echo_closed_connections_total"])
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *control.Metrics
	assert.NotPanics(t, func() {
		m.Accepted()
		m.Closed(control.ReasonHangup)
		m.Read(1)
		m.Written(1)
		m.Backpressure()
	})
}

func TestMetricsDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	control.NewMetrics(reg)
	assert.Panics(t, func() { control.NewMetrics(reg) })
}
