package summarizer

import "strings"

const (
	MaxWords = 20
	Ellipsis = "..."
)

// Summarize keeps text of up to MaxWords words as is. Longer text is cut to
// its first MaxWords whitespace-delimited words, joined by single spaces, with
// Ellipsis appended.
func Summarize(text string) string {
	words := strings.Fields(text)
	if len(words) <= MaxWords {
		return text
	}
	return strings.Join(words[:MaxWords], " ") + Ellipsis
}
