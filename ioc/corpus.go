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


package ioc

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/calyptra/forage/ai"
)

// Corpus matches queries against the tactic descriptions by embedding
// similarity. Tactic embeddings are computed once, on first use, and cached
// for the life of the corpus.
type Corpus struct {
	embedder ai.Embedder
	logger   *slog.Logger

	mu      sync.Mutex
	vectors [][]float32
}

// NewCorpus creates a tactic corpus backed by the given embedder.
func NewCorpus(embedder ai.Embedder) (*Corpus, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	return &Corpus{
		embedder: embedder,
		logger:   slog.Default().With("component", "ioc-corpus"),
	}, nil
}

// Match returns the topN tactics most similar to the query vector, best
// first. The first call embeds the tactic descriptions.
func (c *Corpus) Match(ctx context.Context, vector []float32, topN int) ([]Tactic, error) {
	if topN <= 0 || len(vector) == 0 {
		return nil, nil
	}

	vectors, err := c.tacticVectors(ctx)
	if err != nil {
		return nil, err
	}

	type scored struct {
		idx   int
		score float32
	}
	ranked := make([]scored, len(tactics))
	for i := range tactics {
		ranked[i] = scored{idx: i, score: dotProduct(vector, vectors[i])}
	}
	sort.Slice(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	if topN > len(ranked) {
		topN = len(ranked)
	}
	matched := make([]Tactic, topN)
	for i := 0; i < topN; i++ {
		matched[i] = tactics[ranked[i].idx]
	}
	return matched, nil
}

// SeedStrings returns the indicator strings of the topN tactics matching
// the query vector. This pre-loads the indicator accumulation set before
// any model-generated rounds.
func (c *Corpus) SeedStrings(ctx context.Context, vector []float32, topN int) ([]string, error) {
	matched, err := c.Match(ctx, vector, topN)
	if err != nil {
		return nil, err
	}
	var seeds []string
	for _, t := range matched {
		seeds = append(seeds, t.Strings...)
	}
	return seeds, nil
}

func (c *Corpus) tacticVectors(ctx context.Context) ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vectors != nil {
		return c.vectors, nil
	}

	texts := make([]string, len(tactics))
	for i, t := range tactics {
		texts[i] = t.Name + "\n" + t.Description
	}
	vectors, err := c.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding tactic corpus: %w", err)
	}
	if len(vectors) != len(tactics) {
		return nil, fmt.Errorf("tactic embedding mismatch: expected %d, received %d", len(tactics), len(vectors))
	}
	c.logger.Debug("tactic corpus embedded", "tactics", len(tactics))
	c.vectors = vectors
	return c.vectors, nil
}

func dotProduct(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
