package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "4624 - An account was successfully logged on",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "C:\\Windows\\System32\\svchost.exe -k netsvcs -p -s Schedule started by services.exe",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestIngestStatus_String(t *testing.T) {
	tests := []struct {
		status IngestStatus
		want   string
	}{
		{StatusQueued, "queued"},
		{StatusParsing, "parsing"},
		{StatusEmbedding, "embedding"},
		{StatusDone, "done"},
		{StatusError, "error"},
		{IngestStatus(0), "unknown"},
		{IngestStatus(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("IngestStatus.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIngestStatus_Terminal(t *testing.T) {
	terminal := []IngestStatus{StatusDone, StatusError}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("status %s should be terminal", s)
		}
	}

	active := []IngestStatus{StatusQueued, StatusParsing, StatusEmbedding}
	for _, s := range active {
		if s.Terminal() {
			t.Errorf("status %s should not be terminal", s)
		}
	}
}

func TestRecord_HasTimestamp(t *testing.T) {
	r := &Record{Contents: "event"}
	if r.HasTimestamp() {
		t.Error("zero timestamp should report no timestamp")
	}
}
