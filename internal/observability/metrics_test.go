package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/village-blogger/internal/types"
)

func TestObserveCycle(t *testing.T) {
	m := NewMetrics()
	start := time.Date(2024, 5, 15, 6, 0, 0, 0, time.UTC)

	m.ObserveCycle(types.CycleReport{
		StartedAt:       start,
		FinishedAt:      start.Add(12 * time.Second),
		Stage:           types.StageDone,
		PostsCollected:  3,
		Recommendations: []types.Recommendation{{Topic: "A"}, {Topic: "B"}},
		Post:            &types.GeneratedPost{Text: "x", Fallback: true},
		Results: []types.PublishResult{
			{Channel: types.ChannelWall, OK: true},
			{Channel: types.ChannelTelegram, OK: false, Error: "boom"},
		},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CyclesTotal.WithLabelValues(OutcomeSuccess, "done")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PostsCollected.WithLabelValues("news")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PostsCollected.WithLabelValues("blog")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RecommendationsParsed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SynthesisFallbacks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PublishTotal.WithLabelValues("vk_wall", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PublishTotal.WithLabelValues("telegram", OutcomeFailure)))
	assert.Equal(t, float64(start.Add(12*time.Second).Unix()), testutil.ToFloat64(m.LastCycleTimestamp))
}

func TestObserveCycle_Failed(t *testing.T) {
	m := NewMetrics()
	m.ObserveCycle(types.CycleReport{Stage: types.StageCollect, Error: "collect news: timeout"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CyclesTotal.WithLabelValues(OutcomeFailure, "collect")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SynthesisFallbacks))
}

func TestNewMetrics_Independent(t *testing.T) {
	// each instance has its own registry, so constructing twice must not panic
	a := NewMetrics()
	b := NewMetrics()
	a.SynthesisFallbacks.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.SynthesisFallbacks))
}
