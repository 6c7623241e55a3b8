// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"regexp"
	"strings"
)

var (
	// listMarker matches "1. ", "2) ", "- ", "* ", "• " at the start of a line
	listMarker = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s+`)
	emphasis   = strings.NewReplacer("**", "", "__", "")
)

// CleanText removes markdown code block wrappers and emphasis markers from a reply.
// Neither the wall nor the analyst parser understands markdown.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	return strings.TrimSpace(emphasis.Replace(text))
}

// StripListMarker removes a leading bullet or ordinal from a single line.
func StripListMarker(line string) string {
	return listMarker.ReplaceAllString(line, "")
}
