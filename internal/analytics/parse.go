package analytics

import (
	"strings"

	"github.com/jonathan/village-blogger/internal/llm"
	"github.com/jonathan/village-blogger/internal/types"
)

// Delimiter separates topic and timing in a recommendation line.
const Delimiter = "|"

// ParseRecommendations extracts "topic | timing" pairs from a model reply, one per line.
// Lines without the delimiter or with an empty topic are dropped. Only the first delimiter
// splits, so a timing may itself contain "|". Never fails.
func ParseRecommendations(text string) []types.Recommendation {
	recs := []types.Recommendation{}
	for _, line := range strings.Split(llm.CleanText(text), "\n") {
		topic, timing, found := strings.Cut(line, Delimiter)
		if !found {
			continue
		}
		topic = strings.TrimSpace(llm.StripListMarker(topic))
		if topic == "" {
			continue
		}
		recs = append(recs, types.Recommendation{
			Topic:  topic,
			Timing: strings.TrimSpace(timing),
		})
	}
	return recs
}
