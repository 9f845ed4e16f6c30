package artifact

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// timestampKeys are checked in order when looking for an event time in a
// JSON object.
var timestampKeys = []string{"timestamp", "@timestamp", "time", "utc", "ts", "datetime", "date", "event_time"}

// JSONLinesParser extracts one entry per line from newline-delimited JSON
// event streams (JSONL / NDJSON). Each object's flat string and number
// fields become entry metadata; the whole object, rendered as compact
// key=value text, becomes the entry text.
type JSONLinesParser struct{}

func (p *JSONLinesParser) Type() string {
	return "JSON Lines Event Stream"
}

// Identify accepts headers whose first non-blank line parses as a JSON object.
func (p *JSONLinesParser) Identify(header []byte) bool {
	for line := range bytes.Lines(header) {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		if trimmed[0] != '{' {
			return false
		}
		// The first line may be cut off by the header boundary; a full
		// object must still parse.
		var obj map[string]any
		return json.Unmarshal(trimmed, &obj) == nil
	}
	return false
}

func (p *JSONLinesParser) Parse(path string) (iter.Seq2[Entry, error], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return func(yield func(Entry, error) bool) {
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			var obj map[string]any
			if err := json.Unmarshal(line, &obj); err != nil {
				if !yield(Entry{}, fmt.Errorf("line %d: %w", lineNo, err)) {
					return
				}
				continue
			}

			entry := objectEntry(obj)
			if !yield(entry, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Entry{}, err)
		}
	}, nil
}

// objectEntry flattens a JSON object into an Entry. Nested values are
// rendered back to compact JSON.
func objectEntry(obj map[string]any) Entry {
	meta := make(map[string]string, len(obj))
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		v := renderValue(obj[k])
		meta[k] = v
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(v)
	}

	return Entry{
		Timestamp: objectTimestamp(obj),
		Text:      sb.String(),
		Meta:      meta,
	}
}

func renderValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(raw)
	}
}

// objectTimestamp resolves the event time from well-known keys. String
// values parse as log timestamps; numeric values are treated as Unix epoch
// seconds (or milliseconds when implausibly large for seconds).
func objectTimestamp(obj map[string]any) time.Time {
	for _, key := range timestampKeys {
		v, ok := obj[key]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case string:
			if ts := ParseTimestamp(val); !ts.IsZero() {
				return ts
			}
		case float64:
			if val <= 0 {
				continue
			}
			secs := int64(val)
			if secs > 1e12 {
				return time.UnixMilli(secs).UTC()
			}
			return time.Unix(secs, 0).UTC()
		}
	}
	return time.Time{}
}
