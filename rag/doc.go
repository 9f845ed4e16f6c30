// Package rag orchestrates retrieval-augmented query jobs over the
// forensic record store.
//
// A job moves through time-range extraction, query expansion, IOC term
// generation, similarity retrieval, and streamed answer synthesis. The
// Orchestrator admits one job at a time (Start returns ErrBusy while a job
// is running) and owns the job's goroutine; the Publisher exposes the
// job's answer, reasoning trace, and context events to a polling caller as
// cursor-tracked deltas. Cancellation is cooperative: checked at every
// stage boundary and on every synthesis token.
package rag
