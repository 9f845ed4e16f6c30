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


package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/calyptra/forage/core"
	"github.com/calyptra/forage/ingest"
	"github.com/calyptra/forage/rag"
)

// ConfigStore reads and updates the persisted model-endpoint settings.
// *forage.App satisfies it.
type ConfigStore interface {
	LLMConfig(ctx context.Context) (*core.LLMConfig, error)
	UpdateLLMConfig(ctx context.Context, update *core.LLMConfig) (*core.LLMConfig, error)
}

// Server exposes the ingestion pipeline and query orchestrator over HTTP.
type Server struct {
	coord     *ingest.Coordinator
	orch      *rag.Orchestrator
	publisher *rag.Publisher
	config    ConfigStore
	logger    *slog.Logger

	addr      string
	uploadDir string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAddr sets the listen address. Default is ":8080".
func WithAddr(addr string) ServerOption {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithUploadDir sets where uploaded artifact files are written before
// ingestion. Default is the OS temp directory.
func WithUploadDir(dir string) ServerOption {
	return func(s *Server) {
		s.uploadDir = dir
	}
}

// WithServerLogger sets a custom logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer wires the HTTP surface over the given components.
func NewServer(coord *ingest.Coordinator, orch *rag.Orchestrator, config ConfigStore, opts ...ServerOption) *Server {
	s := &Server{
		coord:     coord,
		orch:      orch,
		publisher: rag.NewPublisher(orch),
		config:    config,
		logger:    slog.Default(),
		addr:      ":8080",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the route table. Exposed separately so tests can drive
// it without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /progress", s.handleProgress)
	mux.HandleFunc("GET /artifacts", s.handleArtifacts)
	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("POST /data_query", s.handleDataQuery)
	mux.HandleFunc("GET /config", s.handleGetConfig)
	mux.HandleFunc("POST /config", s.handleSetConfig)
	mux.HandleFunc("GET /delete_db", s.handleDeleteDB)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}
