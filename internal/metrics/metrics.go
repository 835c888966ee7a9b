// Package metrics exports engine activity as Prometheus counters.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/roach88/compstate/internal/engine"
	"github.com/roach88/compstate/internal/ir"
)

// Observer counts fires and state visits. Register it on an engine with
// engine.WithObserver.
type Observer struct {
	fires  *prometheus.CounterVec
	visits *prometheus.CounterVec
}

var _ engine.Observer = (*Observer)(nil)

// New creates an Observer and registers its counters with reg.
func New(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		fires: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compstate_fires_total",
				Help: "Total number of Fire calls by engine and result",
			},
			[]string{"engine", "result"},
		),
		visits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compstate_state_visits_total",
				Help: "Total number of transitions into each leaf path",
			},
			[]string{"engine", "path"},
		),
	}
	for _, c := range []prometheus.Collector{o.fires, o.visits} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return o, nil
}

// Fired implements engine.Observer.
func (o *Observer) Fired(ev engine.FireEvent) {
	o.fires.WithLabelValues(ev.Engine, ev.Response.Result.String()).Inc()
	if ev.Response.Result == ir.Transitioned {
		o.visits.WithLabelValues(ev.Engine, ev.Response.Path.String()).Inc()
	}
}

// WriteText writes every metric gathered from g in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
