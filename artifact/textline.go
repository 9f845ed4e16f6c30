package artifact

import (
	"bufio"
	"iter"
	"os"
	"strings"
	"unicode/utf8"
)

// maxLineBytes bounds a single log line; longer lines yield a per-entry error.
const maxLineBytes = 1024 * 1024

// TextLineParser extracts one entry per line from UTF-8 text and log files.
// It is the fallback format: anything that looks like printable text parses
// here when no other parser claims it.
type TextLineParser struct{}

func (p *TextLineParser) Type() string {
	return "Text Log File"
}

// Identify accepts headers that are valid UTF-8 with a high proportion of
// printable characters.
func (p *TextLineParser) Identify(header []byte) bool {
	// Trailing bytes may be a truncated rune; trim to the last valid boundary.
	trimmed := header
	for len(trimmed) > 0 && !utf8.Valid(trimmed) {
		trimmed = trimmed[:len(trimmed)-1]
		if len(header)-len(trimmed) > utf8.UTFMax {
			return false
		}
	}
	if len(trimmed) == 0 {
		return false
	}

	printable := 0
	total := 0
	for _, r := range string(trimmed) {
		total++
		if r == '\n' || r == '\r' || r == '\t' || r >= ' ' {
			printable++
		}
	}
	return total > 0 && printable*100/total >= 95
}

func (p *TextLineParser) Parse(path string) (iter.Seq2[Entry, error], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return func(yield func(Entry, error) bool) {
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			entry := Entry{
				Timestamp: ExtractTimestamp(line),
				Text:      line,
			}
			if !yield(entry, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Entry{}, err)
		}
	}, nil
}
