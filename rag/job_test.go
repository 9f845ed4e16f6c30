package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobDeltaCursors(t *testing.T) {
	job := newJob("abc", func() {})
	job.setStatus(StatusSynthesizing)

	job.appendMsg("hello ")
	job.appendReasoner("trace")
	job.appendEvents("e1", "e2")

	d := job.delta()
	assert.Equal(t, "abc", d.ID)
	assert.Equal(t, "Synthesizing", d.Status)
	assert.Equal(t, "hello ", d.Msg)
	assert.Equal(t, "trace", d.Reasoner)
	assert.Equal(t, []string{"e1", "e2"}, d.Events)

	// Nothing new: empty delta, same status.
	d = job.delta()
	assert.Empty(t, d.Msg)
	assert.Empty(t, d.Reasoner)
	assert.Empty(t, d.Events)
	assert.Equal(t, "Synthesizing", d.Status)

	// New output is delivered exactly once.
	job.appendMsg("world")
	job.appendEvents("e3")
	d = job.delta()
	assert.Equal(t, "world", d.Msg)
	assert.Equal(t, []string{"e3"}, d.Events)
	assert.Equal(t, "hello world", job.Answer())
}

func TestJobReasonerHeaderFormat(t *testing.T) {
	job := newJob("abc", func() {})
	job.reasonerHeader("Retrieving evidence")
	d := job.delta()
	assert.Equal(t, "\n###### **Retrieving evidence**\n", d.Reasoner)
}

func TestJobCancelTerminalNoOp(t *testing.T) {
	cancelled := 0
	job := newJob("abc", func() { cancelled++ })
	job.setStatus(StatusDone)

	job.Cancel()
	assert.Zero(t, cancelled)
	assert.False(t, job.Cancelled())
	assert.Equal(t, StatusDone, job.Status())
}

func TestJobStatusFrozenWhenTerminal(t *testing.T) {
	job := newJob("abc", func() {})
	job.setStatus(StatusCancelled)
	job.setStatus(StatusSynthesizing)
	assert.Equal(t, StatusCancelled, job.Status())
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Idle", StatusIdle.String())
	assert.Equal(t, "Error", StatusError.String())
	assert.True(t, StatusDone.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusRetrieving.Terminal())
}
