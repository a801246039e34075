package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/inertia/pkg/domain"
)

// Metrics records renders, prop evaluations and partial cache lookups.
type Metrics struct {
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	propEvals      *prometheus.CounterVec
	propDuration   *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inertia_renders_total",
				Help: "Total number of page renders",
			},
			[]string{"mode", "outcome"},
		),
		renderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inertia_render_duration_seconds",
				Help:    "Duration of page renders",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		propEvals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inertia_prop_evaluations_total",
				Help: "Total number of evaluated top-level props",
			},
			[]string{"annotation", "outcome"},
		),
		propDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inertia_prop_evaluation_seconds",
				Help:    "Duration of top-level prop evaluations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"annotation"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inertia_partial_cache_lookups_total",
				Help: "Partial cache lookups by result",
			},
			[]string{"partial", "result"},
		),
	}
	reg.MustRegister(m.renders, m.renderDuration, m.propEvals, m.propDuration, m.cacheLookups)
	return m
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRender: func(_ context.Context, e *domain.RenderEvent) {
			m.renders.WithLabelValues(e.Mode, outcome(e.IsError)).Inc()
			m.renderDuration.WithLabelValues(e.Mode).Observe(e.Duration.Seconds())
		},
		OnPropEvaluated: func(_ context.Context, e *domain.PropEvent) {
			a := e.Annotation.String()
			m.propEvals.WithLabelValues(a, outcome(e.IsError)).Inc()
			m.propDuration.WithLabelValues(a).Observe(e.Duration.Seconds())
		},
	}
}

// ObserveCache records a partial cache lookup. Its signature matches the
// partial caching middleware's observer.
func (m *Metrics) ObserveCache(partial string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(partial, result).Inc()
}

func outcome(isError bool) string {
	if isError {
		return "error"
	}
	return "ok"
}
