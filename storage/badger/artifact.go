package badger

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/calyptra/forage/core"
	"github.com/calyptra/forage/storage"
	"github.com/dgraph-io/badger/v4"
)

// ArtifactRepository implements storage.ArtifactRepository for BadgerDB.
// The artifact file table holds one entry per uploaded file, keyed by path.
type ArtifactRepository struct {
	backend *Backend
}

var _ storage.ArtifactRepository = (*ArtifactRepository)(nil)

// NewArtifactRepository creates a new ArtifactRepository.
func NewArtifactRepository(backend *Backend) (*ArtifactRepository, error) {
	return &ArtifactRepository{
		backend: backend,
	}, nil
}

// Close is a no-op; the repository holds no resources of its own.
func (r *ArtifactRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *ArtifactRepository) FindSimilar(ctx context.Context, vector []float32, filter *storage.SearchFilter, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, filter, limit)
}

// WithTransaction delegates to the backend.
func (r *ArtifactRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutArtifact inserts or replaces an artifact file entry.
func (r *ArtifactRepository) PutArtifact(ctx context.Context, file *core.ArtifactFile) error {
	if err := core.ValidateArtifactFile(file); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if file.EnteredAt.IsZero() {
			file.EnteredAt = time.Now().UTC()
		}
		file.UpdatedAt = time.Now().UTC()

		key := makeArtifactKey(file.Path)
		value := storage.MarshalArtifactFile(file)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetArtifact retrieves an artifact file entry by path.
func (r *ArtifactRepository) GetArtifact(ctx context.Context, path string) (*core.ArtifactFile, error) {
	var result *core.ArtifactFile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeArtifactKey(path))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalArtifactFile(val)
			return err
		})
	}, false)
	return result, err
}

// ListArtifacts returns all artifact file entries, ordered by path.
func (r *ArtifactRepository) ListArtifacts(ctx context.Context) ([]*core.ArtifactFile, error) {
	var results []*core.ArtifactFile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(artifactPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var file *core.ArtifactFile
			err := iter.Item().Value(func(val []byte) error {
				var err error
				file, err = storage.UnmarshalArtifactFile(val)
				return err
			})
			if err != nil {
				return err
			}
			if file != nil {
				results = append(results, file)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.ArtifactFile) int {
		return strings.Compare(a.Path, b.Path)
	})

	return results, nil
}

// DeleteArtifact removes one artifact file entry.
func (r *ArtifactRepository) DeleteArtifact(ctx context.Context, path string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeArtifactKey(path)
		if _, err := tx.Get(key); err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// DeleteAllArtifacts removes every artifact file entry.
func (r *ArtifactRepository) DeleteAllArtifacts(ctx context.Context) error {
	return r.backend.DropPrefix(artifactPrefix + ":")
}
