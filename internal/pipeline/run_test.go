package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/village-blogger/internal/analytics"
	"github.com/jonathan/village-blogger/internal/archive"
	"github.com/jonathan/village-blogger/internal/blogger"
	"github.com/jonathan/village-blogger/internal/llm"
	"github.com/jonathan/village-blogger/internal/llm/llmtest"
	"github.com/jonathan/village-blogger/internal/observability"
	"github.com/jonathan/village-blogger/internal/publishing"
	"github.com/jonathan/village-blogger/internal/types"
)

type stubCollector struct {
	posts, blogPosts []types.Post
	err              error
	window           types.TimeWindow
}

func (s *stubCollector) CollectAll(_ context.Context, window types.TimeWindow) ([]types.Post, []types.Post, error) {
	s.window = window
	return s.posts, s.blogPosts, s.err
}

type stubChannel struct {
	name  types.Channel
	sent  []types.GeneratedPost
	err   error
	reply int64
}

func (c *stubChannel) Name() types.Channel { return c.name }

func (c *stubChannel) Send(_ context.Context, post types.GeneratedPost) (int64, error) {
	c.sent = append(c.sent, post)
	return c.reply, c.err
}

type failingArchiver struct{}

func (failingArchiver) Write(time.Time, []types.Post) (string, error) {
	return "", errors.New("disk full")
}

// Saturday, not an archive day
var saturday = time.Date(2024, 5, 18, 7, 30, 0, 0, time.UTC)

func threePosts(now time.Time) []types.Post {
	return []types.Post{
		{ID: 3, Date: now.Add(-time.Hour).Unix(), Text: "Сенокос начался", Likes: 10},
		{ID: 2, Date: now.Add(-2 * time.Hour).Unix(), Text: "Ярмарка в субботу", Likes: 4},
		{ID: 1, Date: now.Add(-3 * time.Hour).Unix(), Text: "Дожди до среды", Likes: 1},
	}
}

type harness struct {
	collector *stubCollector
	analyst   *llmtest.Fake
	writer    *llmtest.Fake
	wall      *stubChannel
	telegram  *stubChannel
	metrics   *observability.Metrics
	archive   string
}

func newHarness(t *testing.T, now time.Time, analystReply string) *harness {
	t.Helper()
	return &harness{
		collector: &stubCollector{posts: threePosts(now), blogPosts: []types.Post{}},
		analyst:   llmtest.Reply(analystReply),
		writer:    llmtest.Reply("Утро в деревне началось с росы."),
		wall:      &stubChannel{name: types.ChannelWall, reply: 501},
		telegram:  &stubChannel{name: types.ChannelTelegram, reply: 77},
		metrics:   observability.NewMetrics(),
		archive:   filepath.Join(t.TempDir(), "archive"),
	}
}

func (h *harness) cycle(now time.Time, opts Options) *Cycle {
	opts.Now = func() time.Time { return now }
	opts.Location = time.UTC
	opts.Metrics = h.metrics
	return NewCycle(
		h.collector,
		analytics.NewRecommender(h.analyst, time.UTC, nil),
		blogger.New(h.writer, blogger.Options{Location: time.UTC, Now: func() time.Time { return now }}, nil),
		publishing.NewPublisher(nil, h.wall, h.telegram),
		archive.NewWriter(h.archive),
		opts,
		nil,
	)
}

func TestRun_EndToEnd(t *testing.T) {
	h := newHarness(t, saturday, "Сенокос | утро\nЯрмарка | вечер")

	var events []ProgressEvent
	c := h.cycle(saturday, Options{OnProgress: func(e ProgressEvent) { events = append(events, e) }})
	report := c.Run(context.Background())

	assert.False(t, report.Failed())
	assert.Equal(t, types.StageDone, report.Stage)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 3, report.PostsCollected)
	assert.Equal(t, 0, report.BlogPosts)
	assert.Equal(t, types.LastWeek(saturday), h.collector.window)

	require.Len(t, report.Recommendations, 2)
	require.NotNil(t, report.Post)
	assert.Equal(t, "Сенокос", report.Post.Topic)
	assert.False(t, report.Post.Fallback)

	// exactly one delivery per channel
	require.Len(t, h.wall.sent, 1)
	require.Len(t, h.telegram.sent, 1)
	assert.Equal(t, "Сенокос", h.wall.sent[0].Topic)
	require.Len(t, report.Results, 2)
	for _, r := range report.Results {
		assert.True(t, r.OK, r.Channel)
	}

	// the analyst saw the news digest, the writer got the advanced tier
	require.Len(t, h.analyst.Calls(), 1)
	assert.Contains(t, h.analyst.Calls()[0].Prompt, "Сенокос начался")
	require.Len(t, h.writer.Calls(), 1)
	assert.Equal(t, llm.TierAdvanced, h.writer.Calls()[0].Tier)

	assert.Empty(t, report.ArchivePath, "saturday is not an archive day")
	assert.NotEmpty(t, events)
	for _, e := range events {
		assert.Equal(t, report.ID, e.CycleID)
	}

	last, ok := c.LastReport()
	require.True(t, ok)
	assert.Equal(t, report.ID, last.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.CyclesTotal.WithLabelValues(observability.OutcomeSuccess, "done")))
}

func TestRun_DefaultTopicWithoutRecommendations(t *testing.T) {
	h := newHarness(t, saturday, "Ничего интересного на этой неделе.")
	report := h.cycle(saturday, Options{}).Run(context.Background())

	assert.False(t, report.Failed())
	assert.Empty(t, report.Recommendations)
	require.NotNil(t, report.Post)
	assert.Equal(t, DefaultTopic, report.Post.Topic)
	require.Len(t, h.wall.sent, 1)
	require.Len(t, h.telegram.sent, 1)
}

func TestRun_CollectionFailureEndsCycle(t *testing.T) {
	h := newHarness(t, saturday, "Сенокос | утро")
	h.collector.err = errors.New("vk unavailable")

	c := h.cycle(saturday, Options{})
	report := c.Run(context.Background())

	assert.True(t, report.Failed())
	assert.Equal(t, types.StageCollect, report.Stage)
	assert.Contains(t, report.Error, "vk unavailable")
	assert.Empty(t, h.analyst.Calls())
	assert.Empty(t, h.writer.Calls())
	assert.Empty(t, h.wall.sent)
	assert.Empty(t, h.telegram.sent)
	assert.Nil(t, report.Post)

	last, ok := c.LastReport()
	require.True(t, ok)
	assert.True(t, last.Failed())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.CyclesTotal.WithLabelValues(observability.OutcomeFailure, "collect")))
}

func TestRun_RecommendationFailureEndsCycle(t *testing.T) {
	h := newHarness(t, saturday, "")
	h.analyst = llmtest.Fail(errors.New("quota exceeded"))

	report := h.cycle(saturday, Options{}).Run(context.Background())

	assert.True(t, report.Failed())
	assert.Equal(t, types.StageRecommend, report.Stage)
	assert.Contains(t, report.Error, "quota exceeded")
	assert.Empty(t, h.writer.Calls())
	assert.Empty(t, h.wall.sent)
	assert.Empty(t, h.telegram.sent)
}

func TestRun_SynthesisFailureStillPublishesFallback(t *testing.T) {
	h := newHarness(t, saturday, "Сенокос | утро")
	h.writer = llmtest.Fail(errors.New("model overloaded"))

	report := h.cycle(saturday, Options{}).Run(context.Background())

	assert.False(t, report.Failed())
	require.NotNil(t, report.Post)
	assert.True(t, report.Post.Fallback)
	assert.Equal(t, blogger.Fallback("Сенокос"), report.Post.Text)
	require.Len(t, h.wall.sent, 1)
	require.Len(t, h.telegram.sent, 1)
}

func TestRun_PublishFailureDoesNotFailCycle(t *testing.T) {
	h := newHarness(t, saturday, "Сенокос | утро")
	h.wall.err = errors.New("access denied")

	report := h.cycle(saturday, Options{}).Run(context.Background())

	assert.False(t, report.Failed())
	assert.Equal(t, types.StageDone, report.Stage)
	require.Len(t, report.Results, 2)
	assert.False(t, report.Results[0].OK)
	assert.True(t, report.Results[1].OK)
	require.Len(t, h.telegram.sent, 1)
}

func TestRun_ImagePostsUseImageTier(t *testing.T) {
	h := newHarness(t, saturday, "Сенокос | утро")
	h.writer = &llmtest.Fake{MultimodalFunc: func(string, llm.ModelTier) (*llm.Response, error) {
		return &llm.Response{Text: "Пост с картинкой"}, nil
	}}

	report := h.cycle(saturday, Options{ImagePosts: true}).Run(context.Background())

	require.NotNil(t, report.Post)
	assert.Equal(t, "Пост с картинкой", report.Post.Text)
	require.Len(t, h.writer.Calls(), 1)
	assert.Equal(t, llm.TierImage, h.writer.Calls()[0].Tier)
}

func TestRun_WritesArchiveOnWednesday(t *testing.T) {
	wednesday := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	h := newHarness(t, wednesday, "Сенокос | утро")

	report := h.cycle(wednesday, Options{}).Run(context.Background())

	assert.Equal(t, types.StageDone, report.Stage)
	assert.Equal(t, filepath.Join(h.archive, "week_2024-05-15.txt"), report.ArchivePath)
	assert.FileExists(t, report.ArchivePath)
}

func TestRun_ArchiveFailureIsNotFatal(t *testing.T) {
	h := newHarness(t, saturday, "Сенокос | утро")
	c := h.cycle(saturday, Options{})
	c.archiver = failingArchiver{}

	report := c.Run(context.Background())

	assert.False(t, report.Failed())
	assert.Equal(t, types.StageDone, report.Stage)
	assert.Empty(t, report.ArchivePath)
}

func TestLastReport_EmptyBeforeFirstRun(t *testing.T) {
	c := NewCycle(&stubCollector{}, nil, nil, nil, nil, Options{}, nil)
	_, ok := c.LastReport()
	assert.False(t, ok)
}
