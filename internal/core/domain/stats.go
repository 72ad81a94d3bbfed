package domain

import "strings"

// EpisodeStats holds basic size metrics for a raw transcript.
type EpisodeStats struct {
	Episode   string `json:"episode"`
	WordCount int    `json:"word_count"`
	LineCount int    `json:"line_count"`
}

// NewEpisodeStats counts whitespace-separated words and lines in text.
// A trailing newline does not start a new line.
func NewEpisodeStats(slug, text string) EpisodeStats {
	return EpisodeStats{
		Episode:   slug,
		WordCount: len(strings.Fields(text)),
		LineCount: countLines(text),
	}
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
