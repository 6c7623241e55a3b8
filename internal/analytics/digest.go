package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/village-blogger/internal/prompts"
	"github.com/jonathan/village-blogger/internal/types"
)

// Digest budgets in runes
const (
	NewsDigestLimit = 2000
	BlogDigestLimit = 1000
)

// excerptLength is how much of a post body goes into its summary line.
const excerptLength = 80

// Truncate cuts s to at most limit runes. It never splits a rune and is idempotent.
func Truncate(s string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// flatten puts a post body on one line.
func flatten(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
}

// SummaryLine renders one post with its engagement counters.
func SummaryLine(p types.Post, loc *time.Location) string {
	return fmt.Sprintf("%s | «%s...» | Лайки: %d | Репосты: %d | Просмотры: %d",
		p.Time(loc).Format("2006-01-02 15:04"),
		Truncate(flatten(p.Text), excerptLength),
		p.Likes, p.Reposts, p.Views)
}

// Digest joins the summary lines of posts and truncates the result to limit runes.
func Digest(posts []types.Post, loc *time.Location, limit int) string {
	lines := make([]string, 0, len(posts))
	for _, p := range posts {
		lines = append(lines, SummaryLine(p, loc))
	}
	return Truncate(strings.Join(lines, "\n"), limit)
}

// ArchiveText renders the weekly news archive: a dated header followed by one post per line.
func ArchiveText(date time.Time, posts []types.Post) string {
	lines := make([]string, 0, len(posts)+1)
	lines = append(lines, prompts.Render(prompts.AnalystFile, "archive-header", map[string]string{
		"Date": date.Format("2006-01-02"),
	}))
	for _, p := range posts {
		lines = append(lines, flatten(p.Text))
	}
	return strings.Join(lines, "\n")
}
