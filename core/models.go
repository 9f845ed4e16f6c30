package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// IngestStatus tracks an artifact file through the ingestion pipeline.
type IngestStatus int

const (
	// StatusQueued means the file is accepted but not yet picked up by a worker.
	StatusQueued IngestStatus = iota + 1
	// StatusParsing means a parser plugin is iterating the file's entries.
	StatusParsing
	// StatusEmbedding means parsed entries are being embedded and appended to storage.
	StatusEmbedding
	// StatusDone is the successful terminal status.
	StatusDone
	// StatusError is the failed terminal status; ErrDetail carries the cause.
	StatusError
)

// statusLabels are the wire labels exposed through the progress endpoint.
var statusLabels = map[IngestStatus]string{
	StatusQueued:    "queued",
	StatusParsing:   "parsing",
	StatusEmbedding: "embedding",
	StatusDone:      "done",
	StatusError:     "error",
}

func (s IngestStatus) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "unknown"
}

// Terminal reports whether the status is Done or Error.
func (s IngestStatus) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// ArtifactFile describes one uploaded forensic artifact and its ingestion state.
// It is created on upload and mutated only by the ingestion coordinator.
type ArtifactFile struct {
	Path      string
	Size      int64
	FileType  string
	MD5       string
	SHA1      string
	SHA256    string
	ItemCount int // Records produced so far, updated incrementally mid-file
	Status    IngestStatus
	ErrDetail string // Populated when Status is StatusError
	EnteredAt time.Time
	UpdatedAt time.Time
}

// Record is one normalized, embedded unit of evidence derived from an artifact.
// Records are written once by the embedding stage and are immutable thereafter.
type Record struct {
	Id           ID
	ArtifactPath string            // Owning ArtifactFile path
	Contents     string            // Free-text representation of one artifact entry
	Metadata     map[string]string // Format-specific key/value metadata
	Timestamp    time.Time         // Extracted event time; zero means none
	InsertedAt   time.Time
	Vector       []float32 // Embedding vector for similarity search (populated by the embedding stage)
}

// HasTimestamp reports whether an event time was extracted for the record.
func (r *Record) HasTimestamp() bool {
	return !r.Timestamp.IsZero()
}

// SearchResult represents a similarity search hit with its relevance score.
type SearchResult struct {
	Record *Record
	Score  float32
}
