package artifact

import (
	"regexp"
	"strings"
	"time"
)

// timePattern finds ISO-8601-like timestamps anywhere in a line.
var timePattern = regexp.MustCompile(
	`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?`)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a timestamp string in common log formats.
// Returns the zero time if the string doesn't parse. Timestamps without an
// explicit zone are treated as UTC.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

// ExtractTimestamp finds the first recognizable timestamp in a log line.
// Returns the zero time when the line carries none.
func ExtractTimestamp(line string) time.Time {
	match := timePattern.FindString(line)
	if match == "" {
		return time.Time{}
	}
	return ParseTimestamp(match)
}
