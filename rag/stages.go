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
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/calyptra/forage/ai"
	"github.com/calyptra/forage/artifact"
	"github.com/calyptra/forage/core"
	"github.com/calyptra/forage/storage"
)

// extractTimeRange asks the model for a {start, end} window implied by the
// question. Malformed responses retry with temperature nudging; exhausted
// attempts and absent ranges both yield an unbounded window. Never fatal.
func (o *Orchestrator) extractTimeRange(ctx context.Context, job *Job, req Request) (time.Time, time.Time) {
	msgs := []ai.Message{{Role: ai.RoleUser, Content: ai.TimeRangePrompt(time.Now(), req.Query)}}

	for attempt := 1; attempt <= maxStageAttempts; attempt++ {
		if job.Cancelled() || ctx.Err() != nil {
			return time.Time{}, time.Time{}
		}

		resp, err := o.generator.Generate(ctx, msgs)
		if err != nil {
			if ctx.Err() != nil {
				return time.Time{}, time.Time{}
			}
			o.logger.Debug("time range extraction failed", "attempt", attempt, "err", err)
			o.generator.IncreaseTemperature()
			continue
		}

		var window struct {
			Start string `json:"start"`
			End   string `json:"end"`
		}
		if err := json.Unmarshal([]byte(ai.CarveJSON(resp)), &window); err != nil {
			o.logger.Debug("time range response not JSON", "attempt", attempt, "err", err)
			o.generator.IncreaseTemperature()
			continue
		}

		if window.Start == "" && window.End == "" {
			o.generator.ResetTemperature()
			if req.VerboseReasoner {
				job.appendReasoner("No time range stated in the question.\n")
			}
			return time.Time{}, time.Time{}
		}

		start := artifact.ParseTimestamp(window.Start)
		end := artifact.ParseTimestamp(window.End)
		if start.IsZero() && end.IsZero() {
			o.logger.Debug("time range timestamps unparseable", "attempt", attempt, "start", window.Start, "end", window.End)
			o.generator.IncreaseTemperature()
			continue
		}
		o.generator.ResetTemperature()
		if req.VerboseReasoner {
			job.appendReasoner(fmt.Sprintf("Time window: %s to %s\n", renderBound(start), renderBound(end)))
		}
		return start, end
	}

	o.generator.ResetTemperature()
	return time.Time{}, time.Time{}
}

func renderBound(t time.Time) string {
	if t.IsZero() {
		return "(unbounded)"
	}
	return t.Format(time.RFC3339)
}

// expandQuery rewrites the latest query into a verbose description of the
// suspected activity. The expansion is kept only when it is longer than the
// original; the original query is preserved for synthesis.
func (o *Orchestrator) expandQuery(ctx context.Context, job *Job, req Request) string {
	history := ai.PruneMessages(req.History, o.maxRAGContext)
	msgs := []ai.Message{{Role: ai.RoleUser, Content: ai.ExpandQueryPrompt(time.Now(), history, req.Query)}}

	resp, err := o.generator.Generate(ctx, msgs)
	if err != nil {
		o.logger.Debug("query expansion failed, using original", "err", err)
		return req.Query
	}
	expanded := strings.TrimSpace(resp)
	if len(expanded) <= len(req.Query) {
		return req.Query
	}
	if req.VerboseReasoner {
		job.appendReasoner(expanded + "\n")
	}
	return expanded
}

// generateIndicators builds the IOC term set: seeded from tactic-corpus
// hits, then grown by bounded rounds of model generation. Terms are
// casefolded, deduplicated, and dropped below the minimum length. Failures
// shrink the set but are never fatal.
func (o *Orchestrator) generateIndicators(ctx context.Context, job *Job, req Request, expanded string, vector []float32) []string {
	seen := make(map[string]struct{})
	var terms []string
	add := func(s string) bool {
		norm := strings.ToLower(strings.TrimSpace(s))
		if len(norm) < minIndicatorLen {
			return false
		}
		if _, ok := seen[norm]; ok {
			return false
		}
		seen[norm] = struct{}{}
		terms = append(terms, norm)
		return true
	}

	seeds, err := o.corpus.SeedStrings(ctx, vector, seedTactics)
	if err != nil {
		o.logger.Debug("tactic seeding failed", "err", err)
	}
	for _, s := range seeds {
		if len(terms) >= indicatorCap {
			break
		}
		add(s)
	}

	msgs := []ai.Message{{Role: ai.RoleUser, Content: ai.IndicatorsPrompt(time.Now(), expanded)}}
	for round := 1; round <= maxIndicatorRounds && len(terms) < indicatorCap; round++ {
		if job.Cancelled() || ctx.Err() != nil {
			break
		}

		resp, err := o.generator.Generate(ctx, msgs)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			o.logger.Debug("indicator round failed", "round", round, "err", err)
			o.generator.IncreaseTemperature()
			continue
		}

		var batch []string
		if err := json.Unmarshal([]byte(ai.CarveJSON(resp)), &batch); err != nil {
			o.logger.Debug("indicator response not JSON", "round", round, "err", err)
			o.generator.IncreaseTemperature()
			continue
		}

		added := 0
		for _, s := range batch {
			if len(terms) >= indicatorCap {
				break
			}
			if add(s) {
				added++
			}
		}
		if added == 0 {
			break
		}
		msgs = append(msgs,
			ai.Message{Role: ai.RoleAssistant, Content: resp},
			ai.Message{Role: ai.RoleUser, Content: ai.MoreIndicatorsPrompt()})
	}
	o.generator.ResetTemperature()

	if req.VerboseReasoner && len(terms) > 0 {
		job.appendReasoner(fmt.Sprintf("IOC terms (%d): %s\n", len(terms), strings.Join(terms, ", ")))
	}
	return terms
}

// retrieve runs the similarity search, trims the hits to the context token
// budget, and emits the surviving records as context events in
// chronological order. This is the only point events are added to a job.
func (o *Orchestrator) retrieve(ctx context.Context, job *Job, req Request, vector []float32, start, end time.Time, terms []string) ([]string, error) {
	limit := req.ResultLimit
	if limit <= 0 {
		limit = o.resultLimit
	}
	perSource := req.MaxPerSource
	if perSource <= 0 {
		perSource = defaultMaxPerSource
	}

	filter := &storage.SearchFilter{
		Start:        start,
		End:          end,
		Contains:     terms,
		MaxPerSource: perSource,
		MultiHit:     req.MultiHit,
	}
	results, err := o.recordRepo.FindSimilar(ctx, vector, filter, limit)
	if err != nil {
		return nil, err
	}

	budget := o.maxRAGContext
	selected := make([]*core.Record, 0, len(results))
	for _, hit := range results {
		cost := ai.EstimateTokens(renderEvent(hit.Record))
		if cost > budget {
			break
		}
		budget -= cost
		selected = append(selected, hit.Record)
	}

	slices.SortStableFunc(selected, func(a, b *core.Record) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	events := make([]string, len(selected))
	for i, record := range selected {
		events[i] = renderEvent(record)
	}
	job.appendEvents(events...)

	if req.VerboseReasoner {
		job.appendReasoner(fmt.Sprintf("Selected %d of %d retrieved events.\n", len(selected), len(results)))
	}
	return events, nil
}

// renderEvent flattens a record into the single-line form used both as a
// context event and as synthesis input.
func renderEvent(r *core.Record) string {
	src := filepath.Base(r.ArtifactPath)
	if r.HasTimestamp() {
		return fmt.Sprintf("%s [%s] %s", r.Timestamp.UTC().Format(time.RFC3339), src, r.Contents)
	}
	return fmt.Sprintf("[%s] %s", src, r.Contents)
}

// synthesize streams the final answer. Tokens append to the job answer as
// they arrive and the cancel flag is checked on every token. Stream errors
// and degenerate short answers restart the request a bounded number of
// times; partial text is always kept.
func (o *Orchestrator) synthesize(ctx context.Context, job *Job, req Request, expanded string, events []string) error {
	msgs := []ai.Message{
		{Role: ai.RoleSystem, Content: ai.WrapContextEvents(strings.Join(events, "\n"))},
		{Role: ai.RoleUser, Content: ai.SynthesizePrompt(time.Now(), req.Query, expanded)},
	}

	var lastErr error
	for attempt := 1; attempt <= maxStreamAttempts; attempt++ {
		if job.Cancelled() {
			return errCancelled
		}

		attemptLen := 0
		_, err := o.generator.GenerateStream(ctx, msgs, func(token string) error {
			if job.Cancelled() {
				return errCancelled
			}
			job.appendMsg(token)
			attemptLen += len(token)
			return nil
		})
		if errors.Is(err, errCancelled) {
			return errCancelled
		}
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			o.logger.Debug("synthesis stream failed", "attempt", attempt, "err", err)
			lastErr = err
			o.generator.IncreaseTemperature()
			continue
		}

		lastErr = nil
		if attemptLen > minAnswerLen {
			break
		}
		o.logger.Debug("synthesis answer too short, restarting", "attempt", attempt, "len", attemptLen)
		o.generator.IncreaseTemperature()
	}
	o.generator.ResetTemperature()
	return lastErr
}
