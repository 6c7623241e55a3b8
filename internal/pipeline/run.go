// Package pipeline provides the orchestration of one posting cycle:
// collect, recommend, synthesize, publish, then archive.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/village-blogger/internal/analytics"
	"github.com/jonathan/village-blogger/internal/logging"
	"github.com/jonathan/village-blogger/internal/observability"
	"github.com/jonathan/village-blogger/internal/types"
)

// DefaultTopic is used when the analyst reply contains no usable recommendation.
const DefaultTopic = "деревенская жизнь"

// Collector gathers the news and blog feeds for a window.
type Collector interface {
	CollectAll(ctx context.Context, window types.TimeWindow) (posts, blogPosts []types.Post, err error)
}

// Recommender asks the analyst model for topics.
type Recommender interface {
	Recommend(ctx context.Context, posts, blogPosts []types.Post) (response, blogDigest string, err error)
}

// Synthesizer writes the post. Both methods always return usable text.
type Synthesizer interface {
	Synthesize(ctx context.Context, topic, priorDigest string) types.GeneratedPost
	SynthesizeWithImage(ctx context.Context, topic, priorDigest string) types.GeneratedPost
}

// Publisher delivers the post to every channel.
type Publisher interface {
	Publish(ctx context.Context, post types.GeneratedPost) []types.PublishResult
}

// Archiver stores the weekly news dump when due.
type Archiver interface {
	Write(now time.Time, posts []types.Post) (string, error)
}

// ProgressEvent represents a progress update during a cycle
type ProgressEvent struct {
	CycleID string      `json:"cycle_id"`
	Stage   types.Stage `json:"stage"`
	Message string      `json:"message"`
	Content any         `json:"content,omitempty"`
}

// ProgressCallback is called when cycle progress occurs
type ProgressCallback func(event ProgressEvent)

// Options configures a Cycle
type Options struct {
	ImagePosts bool             // ask the image model for an illustration
	Location   *time.Location   // zone for the archive date, defaults to time.Local
	Now        func() time.Time // clock, defaults to time.Now
	Metrics    *observability.Metrics
	OnProgress ProgressCallback
}

// Cycle runs the posting pipeline. It never retries: the next scheduled run is the only
// recovery from a failed cycle.
type Cycle struct {
	collector   Collector
	recommender Recommender
	synthesizer Synthesizer
	publisher   Publisher
	archiver    Archiver
	opts        Options
	logger      logging.Logger

	mu   sync.RWMutex
	last *types.CycleReport
}

// NewCycle wires the pipeline components. archiver may be nil to skip archiving.
func NewCycle(c Collector, r Recommender, s Synthesizer, p Publisher, a Archiver, opts Options, logger logging.Logger) *Cycle {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Cycle{
		collector:   c,
		recommender: r,
		synthesizer: s,
		publisher:   p,
		archiver:    a,
		opts:        opts,
		logger:      logger,
	}
}

// emitProgress calls the progress callback if configured
func (c *Cycle) emitProgress(report *types.CycleReport, message string, content any) {
	if c.opts.OnProgress != nil {
		c.opts.OnProgress(ProgressEvent{
			CycleID: report.ID,
			Stage:   report.Stage,
			Message: message,
			Content: content,
		})
	}
}

// Run executes one cycle and returns its report. Collection and recommendation failures end
// the cycle early; every other stage degrades locally. A report is always produced.
func (c *Cycle) Run(ctx context.Context) types.CycleReport {
	now := c.opts.Now()
	report := types.CycleReport{
		ID:        uuid.New().String(),
		StartedAt: now,
	}
	log := c.logger.WithField("cycle", report.ID)
	log.Info("Posting cycle started")

	defer func() {
		report.FinishedAt = c.opts.Now()
		c.finish(report)
		entry := log.WithFields(logging.Fields{
			"stage":    report.Stage,
			"duration": report.FinishedAt.Sub(report.StartedAt).String(),
		})
		if report.Failed() {
			entry.WithField("error", report.Error).Error("Posting cycle failed")
		} else {
			entry.Info("Posting cycle finished")
		}
	}()

	// Step 1: collect both feeds over the same window
	report.Stage = types.StageCollect
	window := types.LastWeek(now)
	posts, blogPosts, err := c.collector.CollectAll(ctx, window)
	if err != nil {
		report.Error = fmt.Sprintf("collection failed: %v", err)
		return report
	}
	report.PostsCollected = len(posts)
	report.BlogPosts = len(blogPosts)
	c.emitProgress(&report, fmt.Sprintf("Collected %d news posts and %d blog posts", len(posts), len(blogPosts)), nil)

	// Step 2: ask the analyst for topics
	report.Stage = types.StageRecommend
	response, blogDigest, err := c.recommender.Recommend(ctx, posts, blogPosts)
	if err != nil {
		report.Error = fmt.Sprintf("recommendation failed: %v", err)
		return report
	}
	report.Recommendations = analytics.ParseRecommendations(response)
	topic := DefaultTopic
	if len(report.Recommendations) > 0 {
		topic = report.Recommendations[0].Topic
	} else {
		log.Warn("No recommendations from the analyst, using the default topic")
	}
	log.WithFields(logging.Fields{
		"topic":           topic,
		"recommendations": len(report.Recommendations),
	}).Info("Topic selected")
	c.emitProgress(&report, fmt.Sprintf("Selected topic: %s", topic), report.Recommendations)

	// Step 3: write the post; never fails
	report.Stage = types.StageSynthesize
	var post types.GeneratedPost
	if c.opts.ImagePosts {
		post = c.synthesizer.SynthesizeWithImage(ctx, topic, blogDigest)
	} else {
		post = c.synthesizer.Synthesize(ctx, topic, blogDigest)
	}
	report.Post = &post
	c.emitProgress(&report, "Post written", post)

	// Step 4: one attempt per channel
	report.Stage = types.StagePublish
	report.Results = c.publisher.Publish(ctx, post)
	c.emitProgress(&report, "Post published", report.Results)

	// Step 5: weekly archive of the news feed
	if c.archiver != nil {
		report.Stage = types.StageArchive
		path, err := c.archiver.Write(now.In(c.opts.Location), posts)
		if err != nil {
			log.WithError(err).Error("Failed to write weekly archive")
		} else if path != "" {
			report.ArchivePath = path
			log.WithField("path", path).Info("Weekly archive written")
			c.emitProgress(&report, "Archive written", path)
		}
	}

	report.Stage = types.StageDone
	return report
}

func (c *Cycle) finish(report types.CycleReport) {
	if c.opts.Metrics != nil {
		c.opts.Metrics.ObserveCycle(report)
	}
	c.mu.Lock()
	c.last = &report
	c.mu.Unlock()
}

// LastReport returns the report of the most recent cycle, if any.
func (c *Cycle) LastReport() (types.CycleReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return types.CycleReport{}, false
	}
	return *c.last, true
}
