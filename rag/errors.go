package rag

import "errors"

var (
	// ErrBusy is returned by Start while another query job is still running.
	ErrBusy = errors.New("a query is already running")

	// ErrEmptyQuery is returned when a request carries no user query.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrRecordRepositoryRequired is returned when no record repository is provided.
	ErrRecordRepositoryRequired = errors.New("record repository is required")

	// ErrAIProviderRequired is returned when no AI provider is provided.
	ErrAIProviderRequired = errors.New("AI provider is required")

	// errCancelled aborts the synthesis stream when the job's cancel flag is set.
	errCancelled = errors.New("job cancelled")
)
