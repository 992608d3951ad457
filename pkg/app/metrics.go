package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of one or more instances.
// Pass the same Metrics to every App of a process; the collectors
// aggregate across instances.
type Metrics struct {
	updates     prometheus.Counter
	renders     prometheus.Counter
	noopRenders prometheus.Counter
	patches     prometheus.Counter
	failures    prometheus.Counter
}

// NewMetrics registers the instance collectors on reg. A nil reg uses
// the default registerer.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "arbor"
	}
	factory := promauto.With(reg)
	return &Metrics{
		updates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "app",
			Name:      "updates_total",
			Help:      "Model updates processed.",
		}),
		renders: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "app",
			Name:      "renders_total",
			Help:      "Render/diff/patch cycles run.",
		}),
		noopRenders: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "app",
			Name:      "noop_renders_total",
			Help:      "Cycles whose patch sequence was a no-op.",
		}),
		patches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "app",
			Name:      "patches_total",
			Help:      "Patch instructions produced by diffs.",
		}),
		failures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "app",
			Name:      "cycle_failures_total",
			Help:      "Patch cycles aborted by platform failures.",
		}),
	}
}
