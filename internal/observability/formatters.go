// Package observability provides metrics, the status server and formatted CLI output.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/village-blogger/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// previewLength is how much of a post the dry run shows
	previewLength = 100
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		// Truncate long lines
		if runes := []rune(line); len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// Preview returns the first 100 characters of text followed by "...".
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) > previewLength {
		runes = runes[:previewLength]
	}
	return string(runes) + "..."
}

// PrintPost outputs the topic and a preview of a generated post.
func (p *Printer) PrintPost(post *types.GeneratedPost) {
	if post == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Тема:     %s\n", post.Topic))
	if post.Fallback {
		sb.WriteString("Источник: резервный шаблон\n")
	}
	if post.HasImage() {
		sb.WriteString(fmt.Sprintf("Картинка: %s\n", post.ImagePath))
	}
	sb.WriteString("\n")
	sb.WriteString(Preview(post.Text))

	p.printBox("СГЕНЕРИРОВАННЫЙ ПОСТ", sb.String())
}

// PrintRecommendations outputs the analyst's topics.
func (p *Printer) PrintRecommendations(recs []types.Recommendation) {
	if len(recs) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(recs), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, recs[i].Topic))
		if recs[i].Timing != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", recs[i].Timing))
		}
	}
	if len(recs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... и ещё %d\n", len(recs)-maxItemsToShow))
	}

	p.printBox("РЕКОМЕНДАЦИИ АНАЛИТИКА", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStats outputs average engagement of recent posts.
func (p *Printer) PrintStats(stats types.EngagementStats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Постов:      %d\n", stats.Posts))
	sb.WriteString(fmt.Sprintf("Лайки:       %.1f\n", stats.Likes))
	sb.WriteString(fmt.Sprintf("Комментарии: %.1f\n", stats.Comments))
	sb.WriteString(fmt.Sprintf("Репосты:     %.1f\n", stats.Reposts))
	sb.WriteString(fmt.Sprintf("Просмотры:   %.1f", stats.Views))

	p.printBox("СТАТУС: СРЕДНЯЯ АКТИВНОСТЬ", sb.String())
}

// PrintReport outputs the outcome of a posting cycle.
func (p *Printer) PrintReport(report *types.CycleReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Цикл:     %s\n", report.ID))
	sb.WriteString(fmt.Sprintf("Этап:     %s\n", report.Stage))
	sb.WriteString(fmt.Sprintf("Новости:  %d, блог: %d\n", report.PostsCollected, report.BlogPosts))
	if report.Post != nil {
		sb.WriteString(fmt.Sprintf("Тема:     %s\n", report.Post.Topic))
	}
	for _, r := range report.Results {
		status := "ok"
		if !r.OK {
			status = "ошибка: " + r.Error
		}
		sb.WriteString(fmt.Sprintf("%-9s %s\n", string(r.Channel)+":", status))
	}
	if report.ArchivePath != "" {
		sb.WriteString(fmt.Sprintf("Архив:    %s\n", report.ArchivePath))
	}
	if report.Failed() {
		sb.WriteString(fmt.Sprintf("Ошибка:   %s\n", report.Error))
	}

	p.printBox("ЦИКЛ ПУБЛИКАЦИИ", strings.TrimSuffix(sb.String(), "\n"))
}
