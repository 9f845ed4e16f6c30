package artifact

import "time"

// Entry is a single evidence item extracted from an artifact file: one log
// line, one event, one parsed structure. Text is what gets embedded and
// stored; Meta carries flat key/value context from the source format.
type Entry struct {
	// Timestamp is the event time in UTC. Zero when the source item
	// carries no recognizable time.
	Timestamp time.Time

	// Text is the evidence content.
	Text string

	// Meta holds flat string metadata extracted alongside the text.
	Meta map[string]string
}

// HasTimestamp reports whether the entry carries an event time.
func (e *Entry) HasTimestamp() bool {
	return !e.Timestamp.IsZero()
}
