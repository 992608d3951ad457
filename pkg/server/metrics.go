package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the server's Prometheus collectors.
type metrics struct {
	sessionsActive prometheus.Gauge
	sessionsTotal  prometheus.Counter
	eventsTotal    prometheus.Counter
	eventsDropped  prometheus.Counter
	framesSent     prometheus.Counter
	bytesSent      prometheus.Counter
	eventDuration  prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &metrics{
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "arbor",
			Subsystem: "server",
			Name:      "sessions_active",
			Help:      "Currently connected sessions.",
		}),
		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arbor",
			Subsystem: "server",
			Name:      "sessions_total",
			Help:      "Sessions accepted since start.",
		}),
		eventsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arbor",
			Subsystem: "server",
			Name:      "events_total",
			Help:      "Client events processed.",
		}),
		eventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arbor",
			Subsystem: "server",
			Name:      "events_dropped_total",
			Help:      "Client events dropped because a session queue was full.",
		}),
		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arbor",
			Subsystem: "server",
			Name:      "patch_frames_sent_total",
			Help:      "Patch frames sent to clients.",
		}),
		bytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arbor",
			Subsystem: "server",
			Name:      "patch_bytes_sent_total",
			Help:      "Encoded patch bytes sent to clients.",
		}),
		eventDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "arbor",
			Subsystem: "server",
			Name:      "event_duration_seconds",
			Help:      "Time from event dequeue to patch flush.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
