package badger

import (
	"context"
	"slices"
	"time"

	"github.com/calyptra/forage/core"
	"github.com/calyptra/forage/storage"
	"github.com/dgraph-io/badger/v4"
)

// RecordRepository implements storage.RecordRepository for BadgerDB.
type RecordRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.RecordRepository = (*RecordRepository)(nil)

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(backend *Backend) (*RecordRepository, error) {
	idSeq, err := backend.GetSequence(recordIDSeq)
	if err != nil {
		return nil, err
	}

	return &RecordRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *RecordRepository) Close() error {
	return r.idSeq.Release()
}

// FindSimilar delegates to the backend.
func (r *RecordRepository) FindSimilar(ctx context.Context, vector []float32, filter *storage.SearchFilter, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, filter, limit)
}

// WithTransaction delegates to the backend.
func (r *RecordRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddRecords appends one or more records to storage atomically.
// The batch commits as a single transaction so readers never observe
// a partial record.
func (r *RecordRepository) AddRecords(ctx context.Context, records ...*core.Record) ([]*core.Record, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if record.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call, so we skip it
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				record.Id = core.ID(nextID)
			}

			if record.InsertedAt.IsZero() {
				record.InsertedAt = time.Now().UTC()
			}

			// Store primary record
			key := makeRecordKey(record.Id)
			value := storage.MarshalRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update date index for records carrying an event time
			if record.HasTimestamp() {
				dateKey := makeRecordDateKey(record.Timestamp, record.Id)
				if err := tx.Set(dateKey, storage.MarshalID(record.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// GetRecord retrieves a single record by ID.
func (r *RecordRepository) GetRecord(ctx context.Context, id core.ID) (*core.Record, error) {
	var result *core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordKey(id)
		var err error
		result, err = r.readRecord(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetRecords retrieves multiple records by their IDs.
// Missing records are silently skipped.
func (r *RecordRepository) GetRecords(ctx context.Context, ids ...core.ID) ([]*core.Record, error) {
	var result []*core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeRecordKey(id)
			record, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetRecordsByDateRange retrieves records within a time range via the date index.
func (r *RecordRepository) GetRecordsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Record, error) {
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialRecordDateKey(start)
		endKey := makePartialRecordDateKey(end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) > 0 {
				break
			}

			// Read the ID from the index
			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full record
			recordKey := makeRecordKey(recordID)
			record, err := r.readRecord(tx, recordKey)
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// CountRecords returns the number of stored records.
func (r *RecordRepository) CountRecords(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// DeleteAllRecords drops the record and date-index prefixes. Corpus clear.
func (r *RecordRepository) DeleteAllRecords(ctx context.Context) error {
	// Longest prefix first: recordDatePrefix extends recordPrefix.
	if err := r.backend.DropPrefix(recordDatePrefix + ":"); err != nil {
		return err
	}
	return r.backend.DropPrefix(recordPrefix + ":")
}

// readRecord reads and unmarshals a record inside a transaction.
// Returns nil without error when the key does not exist.
func (r *RecordRepository) readRecord(tx *badger.Txn, key []byte) (*core.Record, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.Record
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalRecord(val)
		return err
	})
	return record, err
}
