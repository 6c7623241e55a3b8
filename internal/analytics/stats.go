package analytics

import "github.com/jonathan/village-blogger/internal/types"

// EngagementStats averages the engagement counters of posts. No posts yields zero stats.
func EngagementStats(posts []types.Post) types.EngagementStats {
	stats := types.EngagementStats{Posts: len(posts)}
	if len(posts) == 0 {
		return stats
	}
	for _, p := range posts {
		stats.Likes += float64(p.Likes)
		stats.Comments += float64(p.Comments)
		stats.Reposts += float64(p.Reposts)
		stats.Views += float64(p.Views)
	}
	n := float64(len(posts))
	stats.Likes /= n
	stats.Comments /= n
	stats.Reposts /= n
	stats.Views /= n
	return stats
}
