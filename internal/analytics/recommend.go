// Package analytics turns collected wall posts into prompt digests and topic recommendations.
package analytics

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/village-blogger/internal/llm"
	"github.com/jonathan/village-blogger/internal/logging"
	"github.com/jonathan/village-blogger/internal/prompts"
	"github.com/jonathan/village-blogger/internal/types"
)

// DefaultTopicCount is how many "topic | timing" lines the analyst is asked for.
const DefaultTopicCount = 5

// Recommender asks the analyst model for topics based on last week's posts.
type Recommender struct {
	client llm.Client
	loc    *time.Location
	count  int
	logger logging.Logger
}

// NewRecommender creates a Recommender. Dates in digests are rendered in loc.
func NewRecommender(client llm.Client, loc *time.Location, logger logging.Logger) *Recommender {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Recommender{client: client, loc: loc, count: DefaultTopicCount, logger: logger}
}

// Recommend builds the news and blog digests, asks the model for topics once and returns the
// raw reply together with the blog digest. The reply is not parsed here; use
// ParseRecommendations. Generation errors are returned as *APICallError, without retry.
func (r *Recommender) Recommend(ctx context.Context, posts, blogPosts []types.Post) (string, string, error) {
	newsDigest := Digest(posts, r.loc, NewsDigestLimit)
	blogDigest := Digest(blogPosts, r.loc, BlogDigestLimit)

	prompt := BuildPrompt(newsDigest, r.count)

	r.logger.WithFields(logging.Fields{
		"posts":       len(posts),
		"blog_posts":  len(blogPosts),
		"digest_size": len([]rune(newsDigest)),
	}).Debug("Requesting topic recommendations")

	response, err := r.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", blogDigest, &APICallError{Message: "failed to generate recommendations", Cause: err}
	}
	return strings.TrimSpace(response), blogDigest, nil
}

// BuildPrompt renders the analyst prompt for a news digest.
func BuildPrompt(newsDigest string, count int) string {
	return prompts.Render(prompts.AnalystFile, "recommend-topics", map[string]string{
		"Digest": newsDigest,
		"Count":  strconv.Itoa(count),
	})
}
