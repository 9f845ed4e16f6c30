package rag

import "time"

// Publisher exposes a query job's output to a polling caller. Each Poll
// returns only the text and events produced since the previous Poll, so
// repeated polls never re-deliver output; the concatenation of all Msg
// deltas equals the job's full answer.
type Publisher struct {
	orch *Orchestrator
}

// NewPublisher creates a publisher over the orchestrator's current job.
func NewPublisher(orch *Orchestrator) *Publisher {
	return &Publisher{orch: orch}
}

// Poll returns the delta since the previous poll. When no job has been
// started the status is "Idle" and the delta is empty.
func (p *Publisher) Poll() Delta {
	job := p.orch.Job()
	if job == nil {
		return Delta{
			Status:     StatusIdle.String(),
			Events:     []string{},
			LastUpdate: time.Now().UTC(),
		}
	}
	return job.delta()
}

// Cancel sets the current job's cancel flag. A no-op when no job exists
// or the job is already terminal.
func (p *Publisher) Cancel() {
	if job := p.orch.Job(); job != nil {
		job.Cancel()
	}
}
