// Package server exposes the ingestion coordinator and query orchestrator
// over a JSON HTTP interface: artifact upload and progress, job admission
// with delta polling and cancellation, plain similarity search, persisted
// model-endpoint configuration, and corpus clearing.
package server
