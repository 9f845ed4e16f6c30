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
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/calyptra/forage/ai"
	"github.com/calyptra/forage/artifact"
	"github.com/calyptra/forage/core"
	"github.com/calyptra/forage/rag"
)

const maxUploadMemory = 64 << 20

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("error encoding response", "err", err)
	}
}

func (s *Server) writeResponse(w http.ResponseWriter, payload any) {
	s.writeJSON(w, http.StatusOK, map[string]any{"response": payload})
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// handleUpload saves each multipart file part to the upload directory and
// submits the saved paths for ingestion. Ingestion proceeds asynchronously;
// results surface through /progress.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	dir := s.uploadDir
	if dir == "" {
		dir = os.TempDir()
	}

	var saved []string
	for _, headers := range r.MultipartForm.File {
		for _, header := range headers {
			path, err := s.saveUpload(dir, header.Filename, header)
			if err != nil {
				s.writeError(w, http.StatusInternalServerError, err)
				return
			}
			saved = append(saved, path)
		}
	}
	if len(saved) == 0 {
		s.writeError(w, http.StatusBadRequest, errors.New("no files in upload"))
		return
	}

	if err := s.coord.Submit(saved...); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeResponse(w, "OK")
}

func (s *Server) saveUpload(dir, name string, header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(dir, filepath.Base(name))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

type progressEntry struct {
	Status    string `json:"status"`
	FileType  string `json:"file_type,omitempty"`
	ItemCount int    `json:"item_count"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	snapshot := s.coord.Progress()
	out := make(map[string]progressEntry, len(snapshot))
	for path, p := range snapshot {
		out[path] = progressEntry{
			Status:    p.Status.String(),
			FileType:  p.FileType,
			ItemCount: p.ItemCount,
			Error:     p.Error,
		}
	}
	s.writeResponse(w, out)
}

type artifactEntry struct {
	Filepath  string `json:"filepath"`
	FileSz    int64  `json:"file_sz"`
	FileType  string `json:"file_type"`
	ItemCount int    `json:"item_count"`
}

func (s *Server) handleArtifacts(w http.ResponseWriter, r *http.Request) {
	files, err := s.coord.Artifacts(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]artifactEntry, len(files))
	for i, f := range files {
		out[i] = artifactEntry{
			Filepath:  f.Path,
			FileSz:    f.Size,
			FileType:  f.FileType,
			ItemCount: f.ItemCount,
		}
	}
	s.writeResponse(w, out)
}

type queryRequest struct {
	QueryType       string      `json:"query_type"`
	QueryList       [][2]string `json:"query_list"`
	VerboseReasoner bool        `json:"verbose_reasoner"`
	NResults        int         `json:"n_results"`
	MaxShardCtx     int         `json:"max_shard_ctx"`
	DocMultiHit     bool        `json:"doc_multi_hit"`
}

type statusResponse struct {
	Status     string   `json:"status"`
	Msg        string   `json:"msg"`
	Reasoner   string   `json:"reasoner"`
	Events     []string `json:"events"`
	LastUpdate int64    `json:"last_update"`
	ID         string   `json:"id"`
}

// handleQuery dispatches on query_type: job admission, delta polling, and
// cancellation share one endpoint.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	switch req.QueryType {
	case "new_rag_query":
		s.handleNewQuery(w, req)
	case "rag_query_status":
		d := s.publisher.Poll()
		s.writeJSON(w, http.StatusOK, statusResponse{
			Status:     d.Status,
			Msg:        d.Msg,
			Reasoner:   d.Reasoner,
			Events:     d.Events,
			LastUpdate: d.LastUpdate.Unix(),
			ID:         d.ID,
		})
	case "cancel_rag_query":
		s.publisher.Cancel()
		s.writeResponse(w, "OK")
	default:
		s.writeError(w, http.StatusBadRequest, errors.New("unknown query_type"))
	}
}

func (s *Server) handleNewQuery(w http.ResponseWriter, req queryRequest) {
	if len(req.QueryList) == 0 {
		s.writeError(w, http.StatusBadRequest, rag.ErrEmptyQuery)
		return
	}

	last := req.QueryList[len(req.QueryList)-1]
	history := make([]ai.Message, 0, len(req.QueryList)-1)
	for _, turn := range req.QueryList[:len(req.QueryList)-1] {
		role := turn[0]
		if role != ai.RoleAssistant {
			role = ai.RoleUser
		}
		history = append(history, ai.Message{Role: role, Content: turn[1]})
	}

	id, err := s.orch.Start(rag.Request{
		Query:           last[1],
		History:         history,
		ResultLimit:     req.NResults,
		MaxPerSource:    req.MaxShardCtx,
		MultiHit:        req.DocMultiHit,
		VerboseReasoner: req.VerboseReasoner,
	})
	if errors.Is(err, rag.ErrBusy) {
		s.writeResponse(w, "BUSY")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeResponse(w, id)
}

type dataQueryRequest struct {
	QueryString   string         `json:"query_string"`
	DocMultiHit   bool           `json:"doc_multi_hit"`
	MaxShardCtx   int            `json:"max_shard_ctx"`
	NResults      int            `json:"n_results"`
	ConditionDict map[string]any `json:"condition_dict"`
}

type dataHit struct {
	Event string            `json:"event"`
	Meta  map[string]string `json:"meta"`
}

// handleDataQuery runs a plain similarity search with no model generation.
func (s *Server) handleDataQuery(w http.ResponseWriter, r *http.Request) {
	var req dataQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	opts := rag.SearchOptions{
		ResultLimit:  req.NResults,
		MaxPerSource: req.MaxShardCtx,
		MultiHit:     req.DocMultiHit,
	}
	applyConditions(&opts, req.ConditionDict)

	hits, err := s.orch.Search(r.Context(), req.QueryString, opts)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	out := make([]dataHit, len(hits))
	for i, hit := range hits {
		out[i] = dataHit{Event: hit.Event, Meta: hit.Meta}
	}
	s.writeJSON(w, http.StatusOK, out)
}

// applyConditions maps the loosely-typed condition_dict onto search filters.
// Recognized keys: start, end (timestamps), contains (string or string list).
func applyConditions(opts *rag.SearchOptions, conditions map[string]any) {
	for key, value := range conditions {
		switch key {
		case "start":
			if s, ok := value.(string); ok {
				opts.Start = artifact.ParseTimestamp(s)
			}
		case "end":
			if s, ok := value.(string); ok {
				opts.End = artifact.ParseTimestamp(s)
			}
		case "contains":
			switch v := value.(type) {
			case string:
				opts.Contains = append(opts.Contains, v)
			case []any:
				for _, item := range v {
					if s, ok := item.(string); ok {
						opts.Contains = append(opts.Contains, s)
					}
				}
			}
		}
	}
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.config.LLMConfig(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var update core.LLMConfig
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	cfg, err := s.config.UpdateLLMConfig(r.Context(), &update)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleDeleteDB(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	if err := s.coord.ClearCorpus(ctx); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeResponse(w, "OK")
}
