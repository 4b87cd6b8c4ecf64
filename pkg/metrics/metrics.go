// Package metrics exposes Prometheus metrics for editor sessions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-formedit/pkg/editor"
	"github.com/goliatone/go-formedit/pkg/validation"
)

const namespace = "formedit"

// Collector holds the editor metrics.
type Collector struct {
	// Event metrics
	EventsTotal *prometheus.CounterVec

	// Module metrics
	Fields prometheus.Gauge
	Issues *prometheus.GaugeVec

	// Session metrics
	SessionsActive prometheus.Gauge
}

// New creates a collector registered with the default registerer.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a collector registered with reg. Tests use a fresh
// prometheus.NewRegistry to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		EventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "editor_events_total",
				Help:      "Total number of editor notifications by kind and operation",
			},
			[]string{"kind", "op"},
		),
		Fields: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "module_fields",
				Help:      "Number of fields in the most recently changed module",
			},
		),
		Issues: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "module_issues",
				Help:      "Validation issues in the most recently changed module by severity",
			},
			[]string{"severity"},
		),
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sessions_active",
				Help:      "Number of editor sessions currently observed",
			},
		),
	}
}

// Observe subscribes the collector to state. Events are counted, and the
// module gauges are refreshed whenever the module or its validation changes.
// The returned function unsubscribes and releases the session gauge.
func (c *Collector) Observe(state *editor.State) (cancel func()) {
	c.SessionsActive.Inc()
	c.refresh(state)
	unsubscribe := state.Subscribe(editor.ObserverFunc(func(event editor.Event) {
		c.EventsTotal.WithLabelValues(string(event.Kind), event.Op).Inc()
		if event.Kind == editor.EventStateChanged {
			c.refresh(state)
		}
	}))

	done := false
	return func() {
		if done {
			return
		}
		done = true
		unsubscribe()
		c.SessionsActive.Dec()
	}
}

func (c *Collector) refresh(state *editor.State) {
	module, _ := state.Module()
	c.Fields.Set(float64(len(module.Fields)))

	counts := validation.Count(state.Issues())
	for _, severity := range []validation.Severity{validation.SeverityError, validation.SeverityWarning, validation.SeverityInfo} {
		c.Issues.WithLabelValues(string(severity)).Set(float64(counts[severity]))
	}
}
