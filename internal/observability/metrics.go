package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/village-blogger/internal/types"
)

const namespace = "village_blogger"

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the Prometheus collectors for posting cycles.
type Metrics struct {
	registry *prometheus.Registry

	CyclesTotal           *prometheus.CounterVec
	CycleDuration         prometheus.Histogram
	LastCycleTimestamp    prometheus.Gauge
	PostsCollected        *prometheus.CounterVec
	RecommendationsParsed prometheus.Counter
	SynthesisFallbacks    prometheus.Counter
	PublishTotal          *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CyclesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Posting cycles by outcome and last stage reached.",
		}, []string{"outcome", "stage"}),
		CycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of posting cycles.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		LastCycleTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_cycle_timestamp_seconds",
			Help:      "Unix time the last posting cycle finished.",
		}),
		PostsCollected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_collected_total",
			Help:      "Wall posts collected inside the window, by feed.",
		}, []string{"feed"}),
		RecommendationsParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_parsed_total",
			Help:      "Topic recommendations parsed from analyst replies.",
		}),
		SynthesisFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesis_fallbacks_total",
			Help:      "Posts that used the fallback text.",
		}),
		PublishTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_total",
			Help:      "Publish attempts by channel and outcome.",
		}, []string{"channel", "outcome"}),
	}
}

// ObserveCycle records a finished cycle report.
func (m *Metrics) ObserveCycle(report types.CycleReport) {
	outcome := OutcomeSuccess
	if report.Failed() {
		outcome = OutcomeFailure
	}
	m.CyclesTotal.WithLabelValues(outcome, string(report.Stage)).Inc()
	if !report.FinishedAt.IsZero() {
		m.CycleDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
		m.LastCycleTimestamp.Set(float64(report.FinishedAt.Unix()))
	}

	m.PostsCollected.WithLabelValues("news").Add(float64(report.PostsCollected))
	m.PostsCollected.WithLabelValues("blog").Add(float64(report.BlogPosts))
	m.RecommendationsParsed.Add(float64(len(report.Recommendations)))
	if report.Post != nil && report.Post.Fallback {
		m.SynthesisFallbacks.Inc()
	}
	for _, r := range report.Results {
		result := OutcomeSuccess
		if !r.OK {
			result = OutcomeFailure
		}
		m.PublishTotal.WithLabelValues(string(r.Channel), result).Inc()
	}
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
