package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts feed activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	framesTotal    *prometheus.CounterVec
	decodeErrors   prometheus.Counter
	pingsSent      prometheus.Counter
	scrobbles      prometheus.Counter
	sessionsOpened prometheus.Counter
	joined         prometheus.Gauge
}

// NewMetrics creates the feed collectors and registers them with reg. A nil
// reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	const namespace, subsystem = "nowplaying", "feed"

	return &Metrics{
		framesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "frames_total",
			Help:      "Inbound frames by decoded packet kind",
		}, []string{"kind"}),

		decodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "decode_errors_total",
			Help:      "Frames whose payload could not be decoded",
		}),

		pingsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pings_sent_total",
			Help:      "Keep-alive pings written to the transport",
		}),

		scrobbles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "scrobbles_delivered_total",
			Help:      "Track updates handed to the subscriber callback",
		}),

		sessionsOpened: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sessions_opened_total",
			Help:      "Transport sessions that completed the WebSocket upgrade",
		}),

		joined: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "joined",
			Help:      "1 while the zone namespace is joined",
		}),
	}
}

func (m *Metrics) frame(kind string) {
	if m != nil {
		m.framesTotal.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) decodeError() {
	if m != nil {
		m.decodeErrors.Inc()
	}
}

func (m *Metrics) ping() {
	if m != nil {
		m.pingsSent.Inc()
	}
}

func (m *Metrics) delivered() {
	if m != nil {
		m.scrobbles.Inc()
	}
}

func (m *Metrics) opened() {
	if m != nil {
		m.sessionsOpened.Inc()
	}
}

func (m *Metrics) setJoined(on bool) {
	if m == nil {
		return
	}
	if on {
		m.joined.Set(1)
	} else {
		m.joined.Set(0)
	}
}
