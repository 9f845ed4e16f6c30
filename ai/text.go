package ai

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile("\\w+|[.,!?;:\\-—()\\[\\]{}\"'`]")

// EstimateTokens approximates the number of model tokens in a text string.
// It splits the text into words and punctuation and counts roughly 1.5
// characters per token. The estimate is intentionally conservative; it is
// used for context budgeting, not billing.
func EstimateTokens(text string) int {
	count := 0
	for _, t := range tokenPattern.FindAllString(text, -1) {
		if len(t) <= 1 {
			continue
		}
		n := float64(len(t)) / 1.5
		if n < 1 {
			count++
		} else {
			count += int(n + 0.5)
		}
	}
	return count
}

// CarveJSON strips markdown fence lines from model output before JSON
// parsing. Models often wrap JSON in ```-fenced blocks; any line containing
// a backtick is dropped.
func CarveJSON(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "`") {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// PruneMessages drops the oldest messages until the combined content fits
// within maxTokens. The most recent messages are always preferred.
func PruneMessages(msgs []Message, maxTokens int) []Message {
	for len(msgs) > 1 {
		var sb strings.Builder
		for _, m := range msgs {
			sb.WriteString(m.Content)
		}
		if EstimateTokens(sb.String()) <= maxTokens {
			break
		}
		msgs = msgs[1:]
	}
	return msgs
}

// IndentString indents every line of a multi-line string by the given
// number of spaces. Used to embed chat history and queries inside prompt
// templates.
func IndentString(text string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}
