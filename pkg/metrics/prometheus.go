// Package metrics exports dashboard telemetry as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// PrometheusTelemetry counts telemetry events by name, and widget events by reason when
// used as a refresh hook.
type PrometheusTelemetry struct {
	events  *prometheus.CounterVec
	widgets *prometheus.CounterVec
	gather  prometheus.Gatherer
}

// NewPrometheusTelemetry registers the collectors on reg. A nil registry uses a fresh
// one, which Handler serves.
func NewPrometheusTelemetry(reg *prometheus.Registry) (*PrometheusTelemetry, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	t := &PrometheusTelemetry{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "events_total",
			Help:      "Dashboard telemetry events by name.",
		}, []string{"event"}),
		widgets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "widget_events_total",
			Help:      "Widget events delivered to refresh hooks by reason.",
		}, []string{"reason"}),
		gather: reg,
	}
	for _, c := range []prometheus.Collector{t.events, t.widgets} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Record increments the counter for event.
func (t *PrometheusTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	t.events.WithLabelValues(event).Inc()
}

// WidgetUpdated increments the counter for the event reason.
func (t *PrometheusTelemetry) WidgetUpdated(_ context.Context, event dashboard.WidgetEvent) error {
	t.widgets.WithLabelValues(event.Reason).Inc()
	return nil
}

// Handler serves the registry in the Prometheus text format.
func (t *PrometheusTelemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.gather, promhttp.HandlerOpts{})
}

var (
	_ dashboard.Telemetry   = (*PrometheusTelemetry)(nil)
	_ dashboard.RefreshHook = (*PrometheusTelemetry)(nil)
)
