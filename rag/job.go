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
	"strings"
	"sync"
	"time"
)

// Status is the lifecycle state of a query job.
type Status int

const (
	StatusIdle Status = iota
	StatusExtractingTimeRange
	StatusExpandingQuery
	StatusGeneratingIOCs
	StatusRetrieving
	StatusSynthesizing
	StatusDone
	StatusCancelled
	StatusError
)

var statusLabels = map[Status]string{
	StatusIdle:                "Idle",
	StatusExtractingTimeRange: "Extracting time range",
	StatusExpandingQuery:      "Expanding query",
	StatusGeneratingIOCs:      "Generating IOCs",
	StatusRetrieving:          "Retrieving",
	StatusSynthesizing:        "Synthesizing",
	StatusDone:                "Done",
	StatusCancelled:           "Cancelled",
	StatusError:               "Error",
}

func (s Status) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "Unknown"
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCancelled || s == StatusError
}

// Job is the mutable state of one query pipeline run. The orchestrator
// goroutine is the sole writer; the publisher reads deltas under the mutex.
type Job struct {
	mu sync.Mutex

	id         string
	status     Status
	msg        strings.Builder
	reasoner   strings.Builder
	events     []string
	lastUpdate time.Time
	cancelled  bool
	cancel     context.CancelFunc

	// Read cursors for delta polling.
	msgCursor      int
	reasonerCursor int
	eventCursor    int
}

func newJob(id string, cancel context.CancelFunc) *Job {
	return &Job{
		id:         id,
		status:     StatusIdle,
		cancel:     cancel,
		lastUpdate: time.Now().UTC(),
	}
}

// ID returns the job's generated identifier.
func (j *Job) ID() string {
	return j.id
}

// Status returns the job's current lifecycle state.
func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Answer returns the full accumulated answer text.
func (j *Job) Answer() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.msg.String()
}

// Events returns a copy of all emitted context events.
func (j *Job) Events() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.events))
	copy(out, j.events)
	return out
}

// Cancel sets the cancel flag and aborts in-flight model calls. A no-op
// once the job is terminal.
func (j *Job) Cancel() {
	j.mu.Lock()
	if j.status.Terminal() || j.cancelled {
		j.mu.Unlock()
		return
	}
	j.cancelled = true
	j.lastUpdate = time.Now().UTC()
	cancel := j.cancel
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Cancelled reports whether cancellation has been requested.
func (j *Job) Cancelled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cancelled
}

func (j *Job) setStatus(s Status) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status.Terminal() {
		return
	}
	j.status = s
	j.lastUpdate = time.Now().UTC()
}

func (j *Job) appendMsg(text string) {
	if text == "" {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.msg.WriteString(text)
	j.lastUpdate = time.Now().UTC()
}

func (j *Job) appendReasoner(text string) {
	if text == "" {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.reasoner.WriteString(text)
	j.lastUpdate = time.Now().UTC()
}

// reasonerHeader writes a markdown stage header into the reasoning trace.
func (j *Job) reasonerHeader(title string) {
	j.appendReasoner("\n###### **" + title + "**\n")
}

func (j *Job) appendEvents(events ...string) {
	if len(events) == 0 {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, events...)
	j.lastUpdate = time.Now().UTC()
}

// delta returns the output produced since the previous call and advances
// the read cursors.
func (j *Job) delta() Delta {
	j.mu.Lock()
	defer j.mu.Unlock()

	pending := j.events[j.eventCursor:]
	events := make([]string, len(pending))
	copy(events, pending)

	d := Delta{
		ID:         j.id,
		Status:     j.status.String(),
		Msg:        j.msg.String()[j.msgCursor:],
		Reasoner:   j.reasoner.String()[j.reasonerCursor:],
		Events:     events,
		LastUpdate: j.lastUpdate,
	}
	j.msgCursor = j.msg.Len()
	j.reasonerCursor = j.reasoner.Len()
	j.eventCursor = len(j.events)
	return d
}

// Delta is the output of one poll: only what was produced since the
// previous poll, plus the current state label.
type Delta struct {
	ID         string
	Status     string
	Msg        string
	Reasoner   string
	Events     []string
	LastUpdate time.Time
}
