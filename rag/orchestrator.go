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


package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/calyptra/forage/ai"
	"github.com/calyptra/forage/core"
	"github.com/calyptra/forage/ioc"
	"github.com/calyptra/forage/storage"
)

const (
	defaultResultLimit  = 100
	defaultMaxPerSource = 3
	defaultMaxContext   = 8192

	// maxStageAttempts bounds retries on malformed model output within a
	// single stage.
	maxStageAttempts = 16
	// maxIndicatorRounds bounds IOC generation rounds per job.
	maxIndicatorRounds = 16
	// indicatorCap is the most IOC terms a job will collect.
	indicatorCap = 100
	// minIndicatorLen drops noise terms like "a" or "the".
	minIndicatorLen = 4
	// maxStreamAttempts bounds synthesis restarts on stream errors and on
	// degenerate short answers.
	maxStreamAttempts = 10
	// minAnswerLen is the shortest answer accepted without a restart.
	minAnswerLen = 16
	// seedTactics is how many tactic-corpus hits seed the IOC term set.
	seedTactics = 3
	// embedAttempts bounds retries of the query embedding call.
	embedAttempts = 3
)

// Request describes one query job.
type Request struct {
	// Query is the investigator's latest question.
	Query string
	// History is the prior conversation, oldest first.
	History []ai.Message
	// ResultLimit caps similarity hits per retrieval; 0 means the
	// orchestrator default.
	ResultLimit int
	// MaxPerSource collapses hits from one artifact; 0 means the default.
	MaxPerSource int
	// MultiHit disables per-source collapsing.
	MultiHit bool
	// VerboseReasoner mirrors stage traces into the reasoning buffer.
	VerboseReasoner bool
}

// Orchestrator runs query jobs through the pipeline stages. At most one
// job is non-terminal at a time; Start rejects with ErrBusy until the
// current job finishes.
type Orchestrator struct {
	recordRepo storage.RecordRepository
	embedder   ai.Embedder
	generator  ai.Generator
	corpus     *ioc.Corpus
	logger     *slog.Logger

	resultLimit   int
	maxRAGContext int

	mu  sync.Mutex
	job *Job
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithOrchestratorLogger sets a custom logger.
func WithOrchestratorLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithResultLimit sets the default similarity-hit cap per retrieval.
func WithResultLimit(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.resultLimit = n
		}
	}
}

// WithMaxRAGContext sets the token budget for retrieved context events.
func WithMaxRAGContext(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxRAGContext = n
		}
	}
}

// NewOrchestrator creates a query orchestrator backed by the given record
// store and model provider.
func NewOrchestrator(recordRepo storage.RecordRepository, provider ai.AIProvider, opts ...OrchestratorOption) (*Orchestrator, error) {
	if recordRepo == nil {
		return nil, ErrRecordRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	corpus, err := ioc.NewCorpus(provider.Embedder())
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		recordRepo:    recordRepo,
		embedder:      provider.Embedder(),
		generator:     provider.Generator(),
		corpus:        corpus,
		logger:        slog.Default(),
		resultLimit:   defaultResultLimit,
		maxRAGContext: defaultMaxContext,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Start admits a new query job and runs the pipeline in its own goroutine.
// Returns the generated job id, or ErrBusy while the current job is still
// running.
func (o *Orchestrator) Start(req Request) (string, error) {
	if strings.TrimSpace(req.Query) == "" {
		return "", ErrEmptyQuery
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.job != nil && !o.job.Status().Terminal() {
		return "", ErrBusy
	}

	ctx, cancel := context.WithCancel(context.Background())
	id := newJobID(req.Query)
	job := newJob(id, cancel)
	o.job = job

	go o.run(ctx, job, req)
	return id, nil
}

// Job returns the current job, or nil when none has been started.
func (o *Orchestrator) Job() *Job {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.job
}

func newJobID(query string) string {
	seed := query + "|" + strconv.FormatInt(time.Now().UnixNano(), 10)
	return fmt.Sprintf("%016x", uint64(core.IDFromContent(seed)))
}

func (o *Orchestrator) run(ctx context.Context, job *Job, req Request) {
	started := time.Now()
	o.logger.Info("query job started", "id", job.ID(), "query", req.Query)

	if o.checkpoint(job) {
		return
	}
	job.setStatus(StatusExtractingTimeRange)
	if req.VerboseReasoner {
		job.reasonerHeader("Extracting time range")
	}
	start, end := o.extractTimeRange(ctx, job, req)

	if o.checkpoint(job) {
		return
	}
	job.setStatus(StatusExpandingQuery)
	if req.VerboseReasoner {
		job.reasonerHeader("Expanding query")
	}
	expanded := o.expandQuery(ctx, job, req)

	if o.checkpoint(job) {
		return
	}
	job.setStatus(StatusGeneratingIOCs)
	if req.VerboseReasoner {
		job.reasonerHeader("Generating IOCs")
	}
	vector, err := o.embedQuery(ctx, expanded)
	if err != nil {
		o.fail(job, err)
		return
	}
	terms := o.generateIndicators(ctx, job, req, expanded, vector)

	if o.checkpoint(job) {
		return
	}
	job.setStatus(StatusRetrieving)
	if req.VerboseReasoner {
		job.reasonerHeader("Retrieving evidence")
	}
	events, err := o.retrieve(ctx, job, req, vector, start, end, terms)
	if err != nil {
		o.fail(job, err)
		return
	}
	if len(events) == 0 {
		job.appendMsg("No matching evidence was found in the corpus for this question.")
		job.setStatus(StatusDone)
		o.logger.Info("query job finished with no evidence", "id", job.ID(), "elapsed", time.Since(started))
		return
	}

	if o.checkpoint(job) {
		return
	}
	job.setStatus(StatusSynthesizing)
	if req.VerboseReasoner {
		job.reasonerHeader("Synthesizing answer")
	}
	if err := o.synthesize(ctx, job, req, expanded, events); err != nil {
		if errors.Is(err, errCancelled) || job.Cancelled() {
			job.setStatus(StatusCancelled)
			o.logger.Info("query job cancelled", "id", job.ID())
			return
		}
		o.fail(job, err)
		return
	}

	job.setStatus(StatusDone)
	o.logger.Info("query job done", "id", job.ID(), "events", len(events), "elapsed", time.Since(started))
}

// embedQuery embeds the expanded query with bounded retries, matching the
// per-stage retry treatment the generation calls get.
func (o *Orchestrator) embedQuery(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 1; attempt <= embedAttempts; attempt++ {
		vector, err := o.embedder.EmbedText(ctx, text)
		if err == nil {
			return vector, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		o.logger.Debug("query embedding failed", "attempt", attempt, "err", err)
	}
	return nil, lastErr
}

// checkpoint moves a cancelled job to its terminal state at a stage
// boundary.
func (o *Orchestrator) checkpoint(job *Job) bool {
	if job.Cancelled() {
		job.setStatus(StatusCancelled)
		o.logger.Info("query job cancelled", "id", job.ID())
		return true
	}
	return false
}

func (o *Orchestrator) fail(job *Job, err error) {
	if job.Cancelled() {
		job.setStatus(StatusCancelled)
		o.logger.Info("query job cancelled", "id", job.ID())
		return
	}
	o.logger.Error("query job failed", "id", job.ID(), "err", err)
	job.appendReasoner("\n" + err.Error() + "\n")
	job.setStatus(StatusError)
}
