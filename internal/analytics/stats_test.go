package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/village-blogger/internal/types"
)

func TestEngagementStats(t *testing.T) {
	posts := []types.Post{
		{Likes: 10, Comments: 2, Reposts: 1, Views: 100},
		{Likes: 20, Comments: 0, Reposts: 3, Views: 300},
	}

	stats := EngagementStats(posts)
	assert.Equal(t, 2, stats.Posts)
	assert.InDelta(t, 15.0, stats.Likes, 1e-9)
	assert.InDelta(t, 1.0, stats.Comments, 1e-9)
	assert.InDelta(t, 2.0, stats.Reposts, 1e-9)
	assert.InDelta(t, 200.0, stats.Views, 1e-9)
}

func TestEngagementStats_NoPosts(t *testing.T) {
	assert.Equal(t, types.EngagementStats{}, EngagementStats(nil))
}
