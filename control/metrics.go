// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collectors for the echo reactor.

package control

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Close reasons reported on echo_closed_connections_total.
const (
	ReasonEOF        = "eof"
	ReasonHangup     = "hangup"
	ReasonReadError  = "read_error"
	ReasonWriteError = "write_error"
)

// Metrics holds the reactor's collectors. A nil *Metrics is a valid no-op,
// so the reactor can call it unconditionally.
type Metrics struct {
	ActiveConnections   prometheus.Gauge
	AcceptedConnections prometheus.Counter
	ClosedConnections   *prometheus.CounterVec
	BytesRead           prometheus.Counter
	BytesWritten        prometheus.Counter
	WriteBackpressure   prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "echo_active_connections",
			Help: "Connections currently held in the registry.",
		}),
		AcceptedConnections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "echo_accepted_connections_total",
			Help: "Connections accepted by the listener.",
		}),
		ClosedConnections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "echo_closed_connections_total",
			Help: "Connections removed from the registry, by reason.",
		}, []string{"reason"}),
		BytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "echo_bytes_read_total",
			Help: "Bytes read from peers.",
		}),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "echo_bytes_written_total",
			Help: "Bytes written back to peers.",
		}),
		WriteBackpressure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "echo_write_backpressure_total",
			Help: "Write passes that stopped on a full socket buffer.",
		}),
	}
	reg.MustRegister(
		m.ActiveConnections,
		m.AcceptedConnections,
		m.ClosedConnections,
		m.BytesRead,
		m.BytesWritten,
		m.WriteBackpressure,
	)
	return m
}

func (m *Metrics) Accepted() {
	if m == nil {
		return
	}
	m.AcceptedConnections.Inc()
	m.ActiveConnections.Inc()
}

func (m *Metrics) Closed(reason string) {
	if m == nil {
		return
	}
	m.ClosedConnections.WithLabelValues(reason).Inc()
	m.ActiveConnections.Dec()
}

func (m *Metrics) Read(n int) {
	if m == nil {
		return
	}
	m.BytesRead.Add(float64(n))
}

func (m *Metrics) Written(n int) {
	if m == nil {
		return
	}
	m.BytesWritten.Add(float64(n))
}

func (m *Metrics) Backpressure() {
	if m == nil {
		return
	}
	m.WriteBackpressure.Inc()
}
