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


package ingest

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/calyptra/forage/ai"
	"github.com/calyptra/forage/artifact"
	"github.com/calyptra/forage/core"
	"github.com/calyptra/forage/storage"
)

// FileProgress is a point-in-time snapshot of one file's ingestion state.
type FileProgress struct {
	Status    core.IngestStatus
	FileType  string
	ItemCount int
	Error     string
}

// Coordinator runs the ingestion pipeline: each submitted file is parsed,
// its entries embedded in batches, and the resulting records appended to
// storage. Files are independent worker-pool tasks with no ordering between
// them; every file reaches a terminal status.
type Coordinator struct {
	recordRepo   storage.RecordRepository
	artifactRepo storage.ArtifactRepository
	embedder     ai.Embedder
	pool         *ants.Pool
	logger       *slog.Logger

	batchSize   int
	minEntryLen int
	maxAttempts int
	baseDelay   time.Duration

	mu    sync.Mutex
	table map[string]*core.ArtifactFile
	wg    sync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator) error

// WithPoolSize sets the worker pool size for concurrent file processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(c *Coordinator) error {
		if size < 1 {
			size = 1
		}
		if c.pool != nil {
			c.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		c.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithBatchSize sets how many entries are embedded per model call.
func WithBatchSize(size int) Option {
	return func(c *Coordinator) error {
		if size < 1 {
			size = 1
		}
		c.batchSize = size
		return nil
	}
}

// WithMinEntryLength sets the minimum entry text length; shorter entries
// are skipped.
func WithMinEntryLength(n int) Option {
	return func(c *Coordinator) error {
		c.minEntryLen = n
		return nil
	}
}

// WithRetry configures embedding retry behavior.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *Coordinator) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = maxAttempts
		c.baseDelay = baseDelay
		return nil
	}
}

// NewCoordinator creates an ingestion coordinator. The progress table is
// seeded from the artifact repository so prior runs remain visible.
func NewCoordinator(
	recordRepo storage.RecordRepository,
	artifactRepo storage.ArtifactRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Coordinator, error) {
	if recordRepo == nil {
		return nil, ErrRecordRepositoryRequired
	}
	if artifactRepo == nil {
		return nil, ErrArtifactRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		recordRepo:   recordRepo,
		artifactRepo: artifactRepo,
		embedder:     provider.Embedder(),
		pool:         pool,
		logger:       slog.Default(),
		batchSize:    32,
		minEntryLen:  4,
		maxAttempts:  5,
		baseDelay:    500 * time.Millisecond,
		table:        make(map[string]*core.ArtifactFile),
	}

	for _, opt := range opts {
		if optErr := opt(c); optErr != nil {
			c.Release()
			return nil, optErr
		}
	}

	existing, err := artifactRepo.ListArtifacts(context.Background())
	if err != nil {
		c.Release()
		return nil, err
	}
	for _, file := range existing {
		c.table[file.Path] = file
	}

	return c, nil
}

// Submit queues files for ingestion and returns immediately. Each file is
// processed as an independent pool task; processing errors surface through
// Progress, not through Submit.
func (c *Coordinator) Submit(paths ...string) error {
	if c.pool.IsClosed() {
		return ants.ErrPoolClosed
	}
	for _, path := range paths {
		file := &core.ArtifactFile{
			Path:   path,
			Status: core.StatusQueued,
		}
		c.store(file)

		// Pool submission blocks while every worker is busy, so it runs
		// detached from the caller. Queued entries are already visible
		// through Progress.
		p := path
		c.wg.Add(1)
		go func() {
			err := c.pool.Submit(func() {
				defer c.wg.Done()
				c.processFile(context.Background(), p)
			})
			if err != nil {
				c.wg.Done()
				c.fail(p, err)
			}
		}()
	}
	return nil
}

// Progress returns a snapshot of every known file's ingestion state,
// keyed by path.
func (c *Coordinator) Progress() map[string]FileProgress {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make(map[string]FileProgress, len(c.table))
	for path, file := range c.table {
		snapshot[path] = FileProgress{
			Status:    file.Status,
			FileType:  file.FileType,
			ItemCount: file.ItemCount,
			Error:     file.ErrDetail,
		}
	}
	return snapshot
}

// Artifacts returns the known artifact files sorted by path.
func (c *Coordinator) Artifacts(ctx context.Context) ([]*core.ArtifactFile, error) {
	return c.artifactRepo.ListArtifacts(ctx)
}

// ClearCorpus deletes every record and artifact entry. In-flight files keep
// running; their entries land in the fresh corpus.
func (c *Coordinator) ClearCorpus(ctx context.Context) error {
	if err := c.recordRepo.DeleteAllRecords(ctx); err != nil {
		return err
	}
	if err := c.artifactRepo.DeleteAllArtifacts(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	c.table = make(map[string]*core.ArtifactFile)
	c.mu.Unlock()
	c.logger.Info("corpus cleared")
	return nil
}

// Wait blocks until all submitted files have reached a terminal status.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Release releases the worker pool. The coordinator should not be used
// after calling Release.
func (c *Coordinator) Release() {
	if c.pool != nil {
		c.pool.Release()
	}
}

func (c *Coordinator) processFile(ctx context.Context, path string) {
	info, header, err := artifact.FileInfo(path)
	if err != nil {
		c.fail(path, err)
		return
	}
	c.update(path, func(file *core.ArtifactFile) {
		file.Size = info.Size
		file.MD5 = info.MD5
		file.SHA1 = info.SHA1
		file.SHA256 = info.SHA256
	})

	parser, err := artifact.Detect(header)
	if err != nil {
		c.fail(path, err)
		return
	}
	c.update(path, func(file *core.ArtifactFile) {
		file.FileType = parser.Type()
		file.Status = core.StatusParsing
	})

	seq, err := parser.Parse(path)
	if err != nil {
		c.fail(path, err)
		return
	}

	batch := make([]artifact.Entry, 0, c.batchSize)
	for entry, entryErr := range seq {
		if entryErr != nil {
			c.logger.Debug("skipping malformed entry", "path", path, "err", entryErr)
			continue
		}
		if len(strings.TrimSpace(entry.Text)) < c.minEntryLen {
			continue
		}
		batch = append(batch, entry)
		if len(batch) >= c.batchSize {
			if err := c.flush(ctx, path, batch); err != nil {
				c.fail(path, err)
				return
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := c.flush(ctx, path, batch); err != nil {
			c.fail(path, err)
			return
		}
	}

	c.update(path, func(file *core.ArtifactFile) {
		file.Status = core.StatusDone
	})
	c.logger.Info("file ingested", "path", path)
}

// flush embeds one batch of entries and appends the resulting records.
// Embedding retries with backoff; exhausting retries fails the file while
// keeping earlier batches.
func (c *Coordinator) flush(ctx context.Context, path string, batch []artifact.Entry) error {
	c.update(path, func(file *core.ArtifactFile) {
		file.Status = core.StatusEmbedding
	})

	texts := make([]string, len(batch))
	for i, entry := range batch {
		texts[i] = entry.Text
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = c.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, c.maxAttempts, c.baseDelay)
	if err != nil {
		return err
	}

	records := make([]*core.Record, len(batch))
	for i, entry := range batch {
		records[i] = &core.Record{
			ArtifactPath: path,
			Contents:     entry.Text,
			Metadata:     entry.Meta,
			Timestamp:    entry.Timestamp,
		}
		if i < len(vectors) {
			records[i].Vector = vectors[i]
		}
	}

	if _, err := c.recordRepo.AddRecords(ctx, records...); err != nil {
		return err
	}

	c.update(path, func(file *core.ArtifactFile) {
		file.ItemCount += len(batch)
	})
	return nil
}

// store installs a fresh table entry and persists it.
func (c *Coordinator) store(file *core.ArtifactFile) {
	c.mu.Lock()
	c.table[file.Path] = file
	snapshot := *file
	c.mu.Unlock()
	c.persist(file.Path, &snapshot)
}

// update mutates a table entry under the lock and persists the result.
func (c *Coordinator) update(path string, fn func(*core.ArtifactFile)) {
	c.mu.Lock()
	file, ok := c.table[path]
	if !ok {
		file = &core.ArtifactFile{Path: path, Status: core.StatusQueued}
		c.table[path] = file
	}
	fn(file)
	snapshot := *file
	c.mu.Unlock()
	c.persist(path, &snapshot)
}

func (c *Coordinator) fail(path string, err error) {
	c.logger.Error("file ingestion failed", "path", path, "err", err)
	c.update(path, func(file *core.ArtifactFile) {
		file.Status = core.StatusError
		file.ErrDetail = err.Error()
	})
}

// persist writes the snapshot and copies the storage-assigned timestamps
// back into the live table entry.
func (c *Coordinator) persist(path string, snapshot *core.ArtifactFile) {
	if err := c.artifactRepo.PutArtifact(context.Background(), snapshot); err != nil {
		c.logger.Error("error persisting artifact entry", "path", path, "err", err)
		return
	}
	c.mu.Lock()
	if file, ok := c.table[path]; ok {
		file.EnteredAt = snapshot.EnteredAt
		file.UpdatedAt = snapshot.UpdatedAt
	}
	c.mu.Unlock()
}
