package storage

import (
	"context"
	"time"

	"github.com/calyptra/forage/core"
)

// SearchFilter narrows a similarity search before ranking.
// The zero value applies no filtering.
type SearchFilter struct {
	// Start and End bound the record timestamp (start <= ts < end).
	// A zero time leaves that side unbounded. Records without a timestamp
	// are excluded whenever either bound is set.
	Start time.Time
	End   time.Time

	// Contains holds case-insensitive substring terms; a record matches
	// when its contents contain at least one term. Empty means no term filter.
	Contains []string

	// MinScore drops hits below the given cosine similarity. 0 disables
	// the cutoff.
	MinScore float32

	// MaxPerSource collapses hits to at most N per source artifact.
	// 0 disables collapsing. Ignored when MultiHit is set.
	MaxPerSource int

	// MultiHit allows unlimited hits from the same source artifact.
	MultiHit bool
}

// Empty reports whether the filter constrains anything besides score.
func (f *SearchFilter) Empty() bool {
	if f == nil {
		return true
	}
	return f.Start.IsZero() && f.End.IsZero() && len(f.Contains) == 0
}

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds evidence records similar to the given vector,
	// constrained by the filter (may be nil), up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, filter *SearchFilter, limit int) ([]*core.SearchResult, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// RecordRepository provides operations for managing evidence records.
// Records are append-only; there is no per-record update or delete.
type RecordRepository interface {
	Repository
	// AddRecords appends one or more records to storage atomically.
	// For records with ID=0, generates new IDs from sequence.
	// Sets InsertedAt if not already set.
	// Returns the records with generated IDs and timestamps populated.
	AddRecords(ctx context.Context, records ...*core.Record) ([]*core.Record, error)

	// GetRecord retrieves a single record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, id core.ID) (*core.Record, error)

	// GetRecords retrieves multiple records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetRecords(ctx context.Context, ids ...core.ID) ([]*core.Record, error)

	// GetRecordsByDateRange retrieves records within a time range.
	// Returns records where start <= Timestamp < end, ordered by timestamp.
	GetRecordsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Record, error)

	// CountRecords returns the number of stored records.
	CountRecords(ctx context.Context) (int, error)

	// DeleteAllRecords removes every record and its indices. Corpus clear.
	DeleteAllRecords(ctx context.Context) error
}

// ArtifactRepository provides operations for the artifact file table.
type ArtifactRepository interface {
	Repository
	// PutArtifact inserts or replaces an artifact file entry keyed by path.
	PutArtifact(ctx context.Context, file *core.ArtifactFile) error

	// GetArtifact retrieves an artifact file entry by path.
	// Returns ErrNotFound if no entry exists.
	GetArtifact(ctx context.Context, path string) (*core.ArtifactFile, error)

	// ListArtifacts returns all artifact file entries, ordered by path.
	ListArtifacts(ctx context.Context) ([]*core.ArtifactFile, error)

	// DeleteArtifact removes one artifact file entry.
	// Returns ErrNotFound if no entry exists.
	DeleteArtifact(ctx context.Context, path string) error

	// DeleteAllArtifacts removes every artifact file entry.
	DeleteAllArtifacts(ctx context.Context) error
}

// ConfigRepository persists the LLM endpoint configuration.
type ConfigRepository interface {
	// LoadLLMConfig returns the stored configuration, or defaults if none
	// has been saved yet.
	LoadLLMConfig(ctx context.Context) (*core.LLMConfig, error)

	// SaveLLMConfig stores the configuration.
	SaveLLMConfig(ctx context.Context, cfg *core.LLMConfig) error
}
