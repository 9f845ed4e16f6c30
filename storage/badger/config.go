package badger

import (
	"context"
	"encoding/json"

	"github.com/calyptra/forage/core"
	"github.com/calyptra/forage/storage"
	"github.com/dgraph-io/badger/v4"
)

// ConfigRepository implements storage.ConfigRepository for BadgerDB.
// The LLM config is a thin key/value concern; it is stored as JSON under a
// single fixed key rather than going through the MUS serializers.
type ConfigRepository struct {
	backend *Backend
}

var _ storage.ConfigRepository = (*ConfigRepository)(nil)

// NewConfigRepository creates a new ConfigRepository.
func NewConfigRepository(backend *Backend) (*ConfigRepository, error) {
	return &ConfigRepository{
		backend: backend,
	}, nil
}

// LoadLLMConfig returns the stored configuration, or defaults when no
// configuration has been saved yet.
func (r *ConfigRepository) LoadLLMConfig(ctx context.Context) (*core.LLMConfig, error) {
	var cfg *core.LLMConfig
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(llmConfigKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				cfg = core.DefaultLLMConfig()
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			cfg = &core.LLMConfig{}
			return json.Unmarshal(val, cfg)
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveLLMConfig stores the configuration.
func (r *ConfigRepository) SaveLLMConfig(ctx context.Context, cfg *core.LLMConfig) error {
	if cfg == nil {
		return storage.ErrInvalidQuery
	}
	value, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(llmConfigKey), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
