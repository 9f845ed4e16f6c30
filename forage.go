// Copyright 2025 Calyptra
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package forage

import (
	"context"
	"log/slog"
	"time"

	"github.com/calyptra/forage/ai"
	"github.com/calyptra/forage/ai/openai"
	"github.com/calyptra/forage/core"
	"github.com/calyptra/forage/ingest"
	"github.com/calyptra/forage/rag"
	"github.com/calyptra/forage/storage"
	"github.com/calyptra/forage/storage/badger"
)

// App wires the storage backend, repositories, and model provider together
// and hands out the ingestion coordinator and query orchestrator built on
// top of them.
type App struct {
	backend      *badger.Backend
	recordRepo   storage.RecordRepository
	artifactRepo storage.ArtifactRepository
	configRepo   storage.ConfigRepository
	provider     ai.AIProvider
	logger       *slog.Logger
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	aiConfig *ai.Config
	inMemory bool
}

// WithAIConfig overrides the persisted model-endpoint configuration.
func WithAIConfig(cfg *ai.Config) AppOption {
	return func(o *appOptions) {
		o.aiConfig = cfg
	}
}

// WithInMemory opens the storage backend without touching disk.
func WithInMemory() AppOption {
	return func(o *appOptions) {
		o.inMemory = true
	}
}

// NewApp opens the database at filePath and builds the model provider from
// the persisted configuration unless one is supplied.
func NewApp(filePath string, opts ...AppOption) (*App, error) {
	options := &appOptions{}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	recordRepo, err := badger.NewRecordRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	artifactRepo, err := badger.NewArtifactRepository(backend)
	if err != nil {
		recordRepo.Close()
		backend.Close()
		return nil, err
	}

	configRepo, err := badger.NewConfigRepository(backend)
	if err != nil {
		artifactRepo.Close()
		recordRepo.Close()
		backend.Close()
		return nil, err
	}

	aiConfig := options.aiConfig
	if aiConfig == nil {
		stored, err := configRepo.LoadLLMConfig(context.Background())
		if err != nil {
			artifactRepo.Close()
			recordRepo.Close()
			backend.Close()
			return nil, err
		}
		aiConfig = aiConfigFrom(stored)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		artifactRepo.Close()
		recordRepo.Close()
		backend.Close()
		return nil, err
	}

	return &App{
		backend:      backend,
		recordRepo:   recordRepo,
		artifactRepo: artifactRepo,
		configRepo:   configRepo,
		provider:     provider,
		logger:       slog.Default(),
	}, nil
}

// aiConfigFrom maps the persisted endpoint settings onto a provider config.
func aiConfigFrom(cfg *core.LLMConfig) *ai.Config {
	return ai.NewConfig(
		ai.WithAPIURL(cfg.APIURL),
		ai.WithAPIKey(cfg.APIKey),
		ai.WithModel(cfg.Model),
		ai.WithEmbeddingModel(cfg.EmbeddingModel),
		ai.WithContext(cfg.Context),
		ai.WithMaxRAGContext(cfg.MaxRAGContext),
		ai.WithTimeout(time.Duration(cfg.Timeout*float64(time.Second))),
		ai.WithTemperature(cfg.Temperature),
	)
}

func (a *App) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if err := a.artifactRepo.Close(); err != nil {
		a.logger.Error("error closing artifact repository", "err", err)
		return err
	}
	if err := a.recordRepo.Close(); err != nil {
		a.logger.Error("error closing record repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (a *App) RecordRepository() storage.RecordRepository {
	return a.recordRepo
}

func (a *App) ArtifactRepository() storage.ArtifactRepository {
	return a.artifactRepo
}

func (a *App) Provider() ai.AIProvider {
	return a.provider
}

// NewCoordinator builds an ingestion coordinator over the app's
// repositories and provider.
func (a *App) NewCoordinator(opts ...ingest.Option) (*ingest.Coordinator, error) {
	return ingest.NewCoordinator(a.recordRepo, a.artifactRepo, a.provider, opts...)
}

// NewOrchestrator builds a query orchestrator over the app's record store
// and provider.
func (a *App) NewOrchestrator(opts ...rag.OrchestratorOption) (*rag.Orchestrator, error) {
	return rag.NewOrchestrator(a.recordRepo, a.provider, opts...)
}

// LLMConfig returns the persisted model-endpoint configuration.
func (a *App) LLMConfig(ctx context.Context) (*core.LLMConfig, error) {
	return a.configRepo.LoadLLMConfig(ctx)
}

// UpdateLLMConfig overlays the non-zero fields of update onto the persisted
// configuration and stores the result. The new settings apply to providers
// built after the update.
func (a *App) UpdateLLMConfig(ctx context.Context, update *core.LLMConfig) (*core.LLMConfig, error) {
	cfg, err := a.configRepo.LoadLLMConfig(ctx)
	if err != nil {
		return nil, err
	}
	cfg.Merge(update)
	if err := a.configRepo.SaveLLMConfig(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
