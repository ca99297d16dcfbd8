package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the server's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	sessions       prometheus.Gauge
	frames         *prometheus.CounterVec
	protocolErrors *prometheus.CounterVec
	drops          *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "glowstone",
			Name:      "sessions_active",
			Help:      "Number of open client sessions.",
		}),
		frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glowstone",
			Name:      "frames_total",
			Help:      "Frames read and written, by phase and direction.",
		}, []string{"phase", "direction"}),
		protocolErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glowstone",
			Name:      "protocol_errors_total",
			Help:      "Sessions terminated because of protocol violations.",
		}, []string{"reason"}),
		drops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glowstone",
			Name:      "sessions_dropped_total",
			Help:      "Sessions closed because the peer stopped reading.",
		}, []string{"reason"}),
	}
}

func (m *Metrics) sessionOpened() {
	if m != nil {
		m.sessions.Inc()
	}
}

func (m *Metrics) sessionClosed() {
	if m != nil {
		m.sessions.Dec()
	}
}

func (m *Metrics) frame(phase, direction string) {
	if m != nil {
		m.frames.WithLabelValues(phase, direction).Inc()
	}
}

func (m *Metrics) protocolError(reason string) {
	if m != nil {
		m.protocolErrors.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) dropped(reason string) {
	if m != nil {
		m.drops.WithLabelValues(reason).Inc()
	}
}
