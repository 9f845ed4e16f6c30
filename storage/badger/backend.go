package badger

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/calyptra/forage/core"
	"github.com/calyptra/forage/storage"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

const (
	defaultSequenceBandwidth = 100
)

// Backend wraps a BadgerDB instance and provides low-level operations.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist.
func OpenBackend(filePath string, inMemory bool) (*Backend, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Backend{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// GetSequence returns a BadgerDB sequence for generating sequential IDs.
func (b *Backend) GetSequence(name string) (*badger.Sequence, error) {
	return b.db.GetSequence([]byte(name), defaultSequenceBandwidth)
}

// DropPrefix removes all keys carrying the given prefix.
func (b *Backend) DropPrefix(prefix string) error {
	return b.db.DropPrefix([]byte(prefix))
}

// WithTransaction executes a function within a transaction.
// Implements the storage.Repository transaction contract.
func (b *Backend) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return b.WithTx(func(tx *badger.Txn) error {
		// Execute the callback function
		if err := fn(ctx); err != nil {
			return err
		}
		// Commit the transaction
		return tx.Commit()
	}, true)
}

// FindSimilar finds evidence records similar to the given vector, constrained
// by the filter. Records without an embedding are skipped. Results are ordered
// by similarity score (highest first), collapsed per source artifact when the
// filter requests it.
func (b *Backend) FindSimilar(ctx context.Context, vector []float32, filter *storage.SearchFilter, limit int) ([]*core.SearchResult, error) {
	var results []*core.SearchResult

	terms := lowerTerms(filter)

	err := b.WithTx(func(tx *badger.Txn) error {
		// Iterate through all evidence records
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			key := item.Key()

			// Skip index keys (date index and sequence key)
			if bytes.Equal(key, []byte(recordIDSeq)) ||
				bytes.HasPrefix(key, []byte(recordDatePrefix)) {
				continue
			}

			// Read the record
			var record *core.Record
			err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil {
				continue
			}

			// Skip records without embeddings
			if len(record.Vector) == 0 {
				continue
			}

			if !matchesFilter(record, filter, terms) {
				continue
			}

			// Cosine similarity (dot product for normalized vectors)
			similarity := dotProduct(vector, record.Vector)

			if filter != nil && filter.MinScore > 0 && similarity < filter.MinScore {
				continue
			}

			results = append(results, &core.SearchResult{
				Record: record,
				Score:  similarity,
			})
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	results = collapsePerSource(results, filter)

	// Limit to maxHits
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// lowerTerms precomputes the case-folded filter terms.
func lowerTerms(filter *storage.SearchFilter) []string {
	if filter == nil || len(filter.Contains) == 0 {
		return nil
	}
	terms := make([]string, 0, len(filter.Contains))
	for _, t := range filter.Contains {
		if t == "" {
			continue
		}
		terms = append(terms, strings.ToLower(t))
	}
	return terms
}

// matchesFilter applies the time-range and contains-term constraints.
func matchesFilter(record *core.Record, filter *storage.SearchFilter, terms []string) bool {
	if filter == nil {
		return true
	}

	if !filter.Start.IsZero() || !filter.End.IsZero() {
		// A temporal filter excludes records without an extracted timestamp.
		if !record.HasTimestamp() {
			return false
		}
		if !filter.Start.IsZero() && record.Timestamp.Before(filter.Start) {
			return false
		}
		if !filter.End.IsZero() && !record.Timestamp.Before(filter.End) {
			return false
		}
	}

	if len(terms) > 0 {
		contents := strings.ToLower(record.Contents)
		matched := false
		for _, term := range terms {
			if strings.Contains(contents, term) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// collapsePerSource keeps at most MaxPerSource hits per artifact path.
// Input must already be sorted by score so the kept hits are the best ones.
func collapsePerSource(results []*core.SearchResult, filter *storage.SearchFilter) []*core.SearchResult {
	if filter == nil || filter.MultiHit || filter.MaxPerSource <= 0 {
		return results
	}
	perSource := make(map[string]int)
	collapsed := results[:0]
	for _, result := range results {
		source := result.Record.ArtifactPath
		if perSource[source] >= filter.MaxPerSource {
			continue
		}
		perSource[source]++
		collapsed = append(collapsed, result)
	}
	return collapsed
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
