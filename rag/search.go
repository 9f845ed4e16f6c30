package rag

import (
	"context"
	"time"

	"github.com/calyptra/forage/storage"
)

// SearchOptions filter a plain similarity search.
type SearchOptions struct {
	ResultLimit  int
	MaxPerSource int
	MultiHit     bool
	Start        time.Time
	End          time.Time
	Contains     []string
}

// SearchHit is one similarity hit: the rendered event line plus the
// record's format-specific metadata.
type SearchHit struct {
	Event string
	Meta  map[string]string
}

// Search runs a similarity query against the record store without any
// model generation. Hits are returned in relevance order.
func (o *Orchestrator) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchHit, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	vector, err := o.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}

	limit := opts.ResultLimit
	if limit <= 0 {
		limit = o.resultLimit
	}
	perSource := opts.MaxPerSource
	if perSource <= 0 {
		perSource = defaultMaxPerSource
	}

	filter := &storage.SearchFilter{
		Start:        opts.Start,
		End:          opts.End,
		Contains:     opts.Contains,
		MaxPerSource: perSource,
		MultiHit:     opts.MultiHit,
	}
	results, err := o.recordRepo.FindSimilar(ctx, vector, filter, limit)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, len(results))
	for i, hit := range results {
		hits[i] = SearchHit{
			Event: renderEvent(hit.Record),
			Meta:  hit.Record.Metadata,
		}
	}
	return hits, nil
}
